// Package i18n looks up user-visible strings from embedded YAML catalogs.
package i18n

import (
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

const fallbackLang = "en"

// TranslateFunc returns the localized string for key with params substituted
// for {{name}} placeholders.
type TranslateFunc func(key string, params map[string]string) string

// Translator loads catalogs lazily on first use and never fails: a missing
// translation falls back to English and finally to the key itself.
type Translator struct {
	lang     string
	once     sync.Once
	catalogs map[string]map[string]string
}

// New creates a Translator for lang (e.g. "de", "pt-BR").
func New(lang string) *Translator {
	return &Translator{lang: strings.ToLower(lang)}
}

func (t *Translator) load() {
	t.catalogs = make(map[string]map[string]string)
	entries, err := locales.ReadDir("locales")
	if err != nil {
		slog.Warn("could not read locale catalogs", "err", err)
		return
	}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		data, err := locales.ReadFile("locales/" + e.Name())
		if err != nil {
			slog.Warn("could not read locale catalog", "lang", lang, "err", err)
			continue
		}
		var catalog map[string]string
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			slog.Warn("could not parse locale catalog", "lang", lang, "err", err)
			continue
		}
		t.catalogs[strings.ToLower(lang)] = catalog
	}
}

// T translates key.
func (t *Translator) T(key string, params map[string]string) string {
	t.once.Do(t.load)
	s, ok := t.lookup(key)
	if !ok {
		s = key
	}
	for k, v := range params {
		s = strings.ReplaceAll(s, fmt.Sprintf("{{%s}}", k), v)
	}
	return s
}

// Func exposes T as a TranslateFunc.
func (t *Translator) Func() TranslateFunc { return t.T }

func (t *Translator) lookup(key string) (string, bool) {
	candidates := []string{t.lang}
	if base, _, found := strings.Cut(t.lang, "-"); found {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, fallbackLang)
	for _, lang := range candidates {
		if s, ok := t.catalogs[lang][key]; ok && s != "" {
			return s, true
		}
	}
	return "", false
}

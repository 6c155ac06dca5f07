// Package i18n localizes the messages the API returns. The locale comes from
// the Accept-Language header; unknown locales and missing keys fall back to
// English.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the client states no supported preference.
	DefaultLocale = "en"
	// AcceptLanguageHeader carries the client's locale preference.
	AcceptLanguageHeader = "Accept-Language"
)

// catalogs maps a base language to its messages.
var catalogs = map[string]map[string]string{
	"en": english,
	"fr": french,
	"pt": portuguese,
	"nl": dutch,
}

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator resolves message keys for a locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator returns a translator over the built-in catalogs.
func NewTranslator() *Translator {
	return &Translator{messages: catalogs}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to the
// default locale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether locale has a catalog.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the supported locale the client prefers most.
func GetLocale(c *gin.Context) string {
	return NegotiateLocale(c.GetHeader(AcceptLanguageHeader))
}

type languageRange struct {
	lang    string
	quality float64
	order   int
}

// NegotiateLocale parses an Accept-Language value such as
// "de-CH,fr;q=0.8,en;q=0.5" and returns the highest weighted supported base
// language. Ties keep header order; q=0 excludes a language.
func NegotiateLocale(header string) string {
	if header == "" {
		return DefaultLocale
	}

	var ranges []languageRange
	for i, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		if lang == "" {
			continue
		}
		ranges = append(ranges, languageRange{lang: lang, quality: parseQuality(params), order: i})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].quality > ranges[j].quality
	})

	translator := GetTranslator()
	for _, r := range ranges {
		if r.quality <= 0 {
			break
		}
		if translator.Supports(r.lang) {
			return r.lang
		}
	}
	return DefaultLocale
}

func parseQuality(params string) float64 {
	for _, p := range strings.Split(params, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || strings.TrimSpace(name) != "q" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || q < 0 {
			return 0
		}
		return min(q, 1)
	}
	return 1
}

// Package i18n holds the installer's user-facing messages in English and
// Japanese. Messages are registered in a golang.org/x/text catalog and
// rendered through a message.Printer, so plural forms follow each
// language's rules.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

// Lang is a supported message and asset language.
type Lang string

const (
	EN Lang = "en"
	JA Lang = "ja"
)

// ParseLang validates a --lang value.
func ParseLang(s string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, nil
	case JA:
		return JA, nil
	}
	if s == "" {
		s = "(empty)"
	}
	return "", errors.Newf(errors.ErrInvalidOption, `--lang requires "en" or "ja". Got: %s`, s)
}

// Tag returns the language tag used for catalog lookups.
func (l Lang) Tag() language.Tag {
	if l == JA {
		return language.Japanese
	}
	return language.English
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, m := range messages {
		mustSet(b, language.English, m.key, m.en)
		mustSet(b, language.Japanese, m.key, m.ja)
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key Key, msg catalog.Message) {
	if err := b.Set(tag, string(key), msg); err != nil {
		panic("i18n: registering " + string(key) + ": " + err.Error())
	}
}

// Messages renders catalog entries in one language.
type Messages struct {
	lang    Lang
	printer *message.Printer
}

// New returns the messages for lang.
func New(lang Lang) *Messages {
	return &Messages{
		lang:    lang,
		printer: message.NewPrinter(lang.Tag(), message.Catalog(cat)),
	}
}

// Lang returns the language the messages render in.
func (m *Messages) Lang() Lang {
	return m.lang
}

// Get renders key with args.
func (m *Messages) Get(key Key, args ...interface{}) string {
	return m.printer.Sprintf(string(key), args...)
}

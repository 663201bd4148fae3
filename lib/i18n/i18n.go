// Package i18n provides the translation lookup that templates consume as
// an opaque function. The runtime core never inspects translator output
// beyond interpolating it into markup.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Translator resolves a message key for one locale. Missing keys resolve
// to the key itself, so untranslated UI stays legible instead of blank.
type Translator func(key string, args ...any) string

// Catalog holds message tables per language and matches requested locales
// against them with x/text language matching (so "en-GB" finds "en").
type Catalog struct {
	fallback language.Tag
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

// NewCatalog creates a catalog whose fallback locale is used when a
// requested locale matches nothing.
func NewCatalog(fallback string) (*Catalog, error) {
	tag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: fallback locale %q: %w", fallback, err)
	}
	c := &Catalog{
		fallback: tag,
		messages: make(map[language.Tag]map[string]string),
	}
	c.add(tag, nil)
	return c, nil
}

// Add registers (or extends) the message table for a locale.
func (c *Catalog) Add(locale string, messages map[string]string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	c.add(tag, messages)
	return nil
}

func (c *Catalog) add(tag language.Tag, messages map[string]string) {
	table, ok := c.messages[tag]
	if !ok {
		table = make(map[string]string)
		c.messages[tag] = table
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	for k, v := range messages {
		table[k] = v
	}
}

// Locales returns the registered locales, fallback first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Translator returns the lookup function for the best-matching registered
// locale. Message formatting uses fmt verbs in the message text.
func (c *Catalog) Translator(locale string) Translator {
	table := c.messages[c.fallback]
	fallbackTable := table
	if requested, err := language.Parse(locale); err == nil {
		_, index, _ := c.matcher.Match(requested)
		table = c.messages[c.tags[index]]
	}

	return func(key string, args ...any) string {
		msg, ok := table[key]
		if !ok {
			// Fall through to the fallback table before giving up.
			msg, ok = fallbackTable[key]
			if !ok {
				return key
			}
		}
		if len(args) == 0 {
			return msg
		}
		return fmt.Sprintf(msg, args...)
	}
}

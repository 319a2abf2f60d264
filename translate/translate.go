// Package translate formats user-visible messages for the process locale.
package translate

import (
	"log"
	"os"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LocaleEnv overrides the detected locale when set.
const LocaleEnv = "SIMHYMN_LANG"

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// Locales returns the preferred locales, most preferred first.
func Locales() (locales []string) {
	if lang := os.Getenv(LocaleEnv); len(lang) != 0 {
		return []string{lang}
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("simhymn: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return
}

// Printer returns the message printer for the preferred locales.
func Printer() *message.Printer {
	printerOnce.Do(func() {
		tag := message.MatchLanguage(Locales()...)
		if tag == language.Und {
			tag = language.AmericanEnglish
		}
		printer = message.NewPrinter(tag)
	})

	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Printer().Sprintf(key, args...)
}

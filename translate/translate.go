// Package translate localizes the user visible messages of the emulator.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage overrides the detected locale with a BCP 47 tag, such as "de-CH".
func SetLanguage(tag string) (err error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return
	}

	printer = message.NewPrinter(lang)
	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

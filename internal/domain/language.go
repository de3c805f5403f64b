package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used whenever a conversation or message carries no
// language code.
const DefaultLanguage = "en"

// Language describes one of the eleven official South African languages
// offered by the chat UI.
type Language struct {
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Greeting string       `json:"greeting"`
	Tag      language.Tag `json:"-"`
}

var catalog = []Language{
	{Code: "en", Name: "English", Greeting: "Hello", Tag: language.English},
	{Code: "zu", Name: "isiZulu", Greeting: "Sawubona", Tag: language.Zulu},
	{Code: "xh", Name: "isiXhosa", Greeting: "Molo", Tag: language.MustParse("xh")},
	{Code: "af", Name: "Afrikaans", Greeting: "Hallo", Tag: language.Afrikaans},
	{Code: "nso", Name: "Sepedi", Greeting: "Thobela", Tag: language.MustParse("nso")},
	{Code: "tn", Name: "Setswana", Greeting: "Dumela", Tag: language.MustParse("tn")},
	{Code: "st", Name: "Sesotho", Greeting: "Lumela", Tag: language.MustParse("st")},
	{Code: "ts", Name: "Xitsonga", Greeting: "Avuxeni", Tag: language.MustParse("ts")},
	{Code: "ss", Name: "siSwati", Greeting: "Sawubona", Tag: language.MustParse("ss")},
	{Code: "ve", Name: "Tshivenda", Greeting: "Ndaa", Tag: language.MustParse("ve")},
	{Code: "nr", Name: "isiNdebele", Greeting: "Lotjhani", Tag: language.MustParse("nr")},
}

// Languages returns a copy of the language catalog in display order.
func Languages() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// LookupLanguage finds a catalog entry by its code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range catalog {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageName returns the display name for code, falling back to English
// for codes outside the catalog.
func LanguageName(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.Name
	}
	return "English"
}

// NormalizeLanguage trims code and substitutes DefaultLanguage when it is
// empty. Unknown codes are passed through unchanged.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage
	}
	return code
}

// ContentLanguage returns the BCP 47 form of code for use in a
// Content-Language header, or code itself when it is not in the catalog.
func ContentLanguage(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.Tag.String()
	}
	return code
}

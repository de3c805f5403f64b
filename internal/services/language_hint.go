package services

import (
	"github.com/abadojack/whatlanggo"
)

// languageHint is a best-effort guess of the language a message was typed in.
type languageHint struct {
	Code       string // ISO 639-1, empty when undetermined
	Name       string
	Confidence float64
	Reliable   bool
}

func detectLanguage(text string) languageHint {
	info := whatlanggo.Detect(text)
	return languageHint{
		Code:       info.Lang.Iso6391(),
		Name:       info.Lang.String(),
		Confidence: info.Confidence,
		Reliable:   info.IsReliable(),
	}
}

// mismatches reports a confident detection that disagrees with requested.
func (h languageHint) mismatches(requested string) bool {
	return h.Reliable && h.Code != "" && h.Code != requested
}

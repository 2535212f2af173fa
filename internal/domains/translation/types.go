package translation

import "strings"

type Language string

const (
	Italian  Language = "Italian"
	English  Language = "English"
	Spanish  Language = "Spanish"
	French   Language = "French"
	Tagalog  Language = "Tagalog"
	Hebrew   Language = "Hebrew"
	Japanese Language = "Japanese"
	Hindi    Language = "Hindi"
	Arabic   Language = "Arabic"
	Urdu     Language = "Urdu"
	Greek    Language = "Greek"
)

// Languages lists every selectable language in display order.
var Languages = []Language{
	Italian, English, Spanish, French, Tagalog,
	Hebrew, Japanese, Hindi, Arabic, Urdu, Greek,
}

const DefaultLocale = "en-US"

// capture locales for the recognition engine; Greek is a target-only option
var languageCodes = map[Language]string{
	Italian:  "it-IT",
	English:  "en-US",
	Spanish:  "es-ES",
	French:   "fr-FR",
	Tagalog:  "tl-PH",
	Hebrew:   "he-IL",
	Japanese: "ja-JP",
	Hindi:    "hi-IN",
	Arabic:   "ar-001",
	Urdu:     "urd-PK",
}

// LocaleFor maps a language name to the recognition locale tag, en-US when unmapped.
func LocaleFor(lang Language) string {
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return DefaultLocale
}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

type Tone string

const (
	Formal       Tone = "formal"
	Informal     Tone = "informal"
	Professional Tone = "professional"
	Friendly     Tone = "friendly"
)

var Tones = []Tone{Formal, Informal, Professional, Friendly}

func (t Tone) Valid() bool {
	for _, known := range Tones {
		if t == known {
			return true
		}
	}
	return false
}

// Request is the payload exchanged with the proxy endpoint.
type Request struct {
	Text           string   `json:"text" binding:"required" example:"ciao mondo"`
	SourceLanguage Language `json:"source_lang" binding:"required" example:"Italian"`
	TargetLanguage Language `json:"target_lang" binding:"required" example:"Greek"`
	Tone           Tone     `json:"tone" binding:"required" example:"formal"`
}

func (r Request) IsBlank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Response is the success body of the proxy endpoint.
type Response struct {
	Translation string `json:"translation" example:"Γειά σου κόσμε"`
}

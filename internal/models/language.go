package models

import "fmt"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageArabic  Language = "ar"
	LanguageSpanish Language = "es"

	DefaultLanguage = LanguageEnglish
)

var languages = []Language{LanguageEnglish, LanguageFrench, LanguageArabic, LanguageSpanish}

func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func ParseLanguage(s string) (Language, error) {
	for _, l := range languages {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// RightToLeft reports whether the language is written right to left.
func (l Language) RightToLeft() bool {
	return l == LanguageArabic
}

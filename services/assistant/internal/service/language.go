package service

import "strings"

var languageNames = map[string]string{
	"fr": "French",
	"en": "English",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ar": "Arabic",
	"zh": "Chinese",
	"ja": "Japanese",
	"ru": "Russian",
	"nl": "Dutch",
	"tr": "Turkish",
	"sw": "Swahili",
}

// LanguageName переводит код языка в название для промпта.
// Неизвестный код возвращается как есть: модель обычно понимает и его.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Package language defines the fixed set of languages the relay translates
// between, with the display strings used in provider prompts, chat replies and
// selection menus.
package language

import (
	"strings"

	xlang "golang.org/x/text/language"
)

// Language describes one supported translation target.
type Language struct {
	Code        string // BCP-47 tag stored in settings and carried in postback data
	EnglishName string // used when prompting LLM providers
	Name        string // localized name used in chat replies
	Label       string // menu label with flag and native name
}

// Supported lists every language the relay accepts, in menu order.
var Supported = []Language{
	{Code: "en", EnglishName: "English", Name: "英文", Label: "🇺🇸 英文 English"},
	{Code: "zh-TW", EnglishName: "Traditional Chinese", Name: "繁體中文", Label: "🇹🇼 繁體中文"},
	{Code: "zh-CN", EnglishName: "Simplified Chinese", Name: "簡體中文", Label: "🇨🇳 简体中文"},
	{Code: "ja", EnglishName: "Japanese", Name: "日文", Label: "🇯🇵 日文 日本語"},
	{Code: "ko", EnglishName: "Korean", Name: "韓文", Label: "🇰🇷 韓文 한국어"},
	{Code: "vi", EnglishName: "Vietnamese", Name: "越南文", Label: "🇻🇳 越南文 Tiếng Việt"},
	{Code: "th", EnglishName: "Thai", Name: "泰文", Label: "🇹🇭 泰文 ภาษาไทย"},
	{Code: "ru", EnglishName: "Russian", Name: "俄文", Label: "🇷🇺 俄文 Русский"},
	{Code: "ar", EnglishName: "Arabic", Name: "阿拉伯文", Label: "🇸🇦 阿拉伯文 العربية"},
	{Code: "fr", EnglishName: "French", Name: "法文", Label: "🇫🇷 法文 Français"},
	{Code: "de", EnglishName: "German", Name: "德文", Label: "🇩🇪 德文 Deutsch"},
	{Code: "es", EnglishName: "Spanish", Name: "西班牙文", Label: "🇪🇸 西班牙文 Español"},
	{Code: "it", EnglishName: "Italian", Name: "義大利文", Label: "🇮🇹 義大利文 Italiano"},
	{Code: "ms", EnglishName: "Malay", Name: "馬來文", Label: "🇲🇾 馬來文 Bahasa Melayu"},
	{Code: "id", EnglishName: "Indonesian", Name: "印尼文", Label: "🇮🇩 印尼文 Bahasa Indonesia"},
	{Code: "hi", EnglishName: "Hindi", Name: "印地文", Label: "🇮🇳 印地文 हिन्दी"},
	{Code: "pt", EnglishName: "Portuguese", Name: "葡萄牙文", Label: "🇵🇹 葡萄牙文 Português"},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(Supported))
	for _, l := range Supported {
		m[strings.ToLower(l.Code)] = l
	}
	return m
}()

// Lookup returns the supported language for code (case-insensitive).
func Lookup(code string) (Language, bool) {
	l, ok := byCode[strings.ToLower(code)]
	return l, ok
}

// IsSupported reports whether code names a supported language.
func IsSupported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Canonical normalizes a user-supplied tag to the supported set's spelling,
// e.g. "ZH-tw" → "zh-TW". Returns false for tags outside the set or tags
// x/text cannot parse at all.
func Canonical(code string) (string, bool) {
	if _, err := xlang.Parse(code); err != nil {
		return "", false
	}
	l, ok := Lookup(code)
	if !ok {
		return "", false
	}
	return l.Code, true
}

// EnglishName returns the English name for a tag, or the tag itself when it is
// not in the supported set.
func EnglishName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.EnglishName
	}
	return code
}

// DisplayName returns the localized name used in chat replies, or the tag
// itself when unknown.
func DisplayName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return code
}

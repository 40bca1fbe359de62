package normalize

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the catalog key.
const (
	msgUnknown  = "Something went wrong. Please try again."
	msgNetwork  = "Network error. Check your connection and try again."
	msgCanceled = "Request canceled"
	msgStatus   = "Request failed with status code %d"
	msgDecode   = "Unexpected response from server"
	msgEncode   = "Failed to encode request"
)

var russian = map[string]string{
	msgUnknown:  "Что-то пошло не так. Попробуйте ещё раз.",
	msgNetwork:  "Ошибка сети. Проверьте подключение и попробуйте ещё раз.",
	msgCanceled: "Запрос отменён",
	msgStatus:   "Запрос завершился с кодом %d",
	msgDecode:   "Некорректный ответ сервера",
	msgEncode:   "Не удалось сформировать запрос",
}

func init() {
	for key, text := range russian {
		_ = message.SetString(language.Russian, key, text)
	}
}

// SupportedLanguages lists the locales with a message catalog
var SupportedLanguages = []language.Tag{language.English, language.Russian}

// ParseLanguage resolves a locale name such as "ru" or "en-US" to the closest
// supported language; unknown names fall back to English.
func ParseLanguage(name string) language.Tag {
	if name == "" {
		return language.English
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.English
	}
	matched, _, _ := language.NewMatcher(SupportedLanguages).Match(tag)
	base, _ := matched.Base()
	if base.String() == "ru" {
		return language.Russian
	}
	return language.English
}

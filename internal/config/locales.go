package config

const (
	LangEN = "en"
	LangES = "es"
)

func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}

package prompt

// Language selects the answer template. The enumeration is closed; asking
// for anything else is a validation failure.
type Language string

const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
)

// Template carries the instruction text around the context window plus its
// fixed token cost, measured once for the static part.
type Template struct {
	Language   Language
	Content    string
	BaseTokens int
}

var templates = map[Language]Template{
	LanguageFR: {
		Language:   LanguageFR,
		Content:    "Voici des documents :\n{context}\n\nQuestion : {question}\nRéponds de manière précise en t'appuyant uniquement sur ces documents.",
		BaseTokens: 25,
	},
	LanguageEN: {
		Language:   LanguageEN,
		Content:    "Here are some documents:\n{context}\n\nQuestion: {question}\nAnswer precisely, relying solely on these documents.",
		BaseTokens: 16,
	},
}

// TemplateFor returns the template for a language, reporting whether the
// language is supported.
func TemplateFor(language Language) (Template, bool) {
	t, ok := templates[language]
	return t, ok
}

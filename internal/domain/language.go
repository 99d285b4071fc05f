package domain

// Language is one entry of the judge's runtime catalogue
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Well-known Judge0 CE language identifiers
const (
	LanguageC          = 50
	LanguageCPP        = 54
	LanguageGo         = 60
	LanguageJava       = 62
	LanguageJavaScript = 63
	LanguagePython3    = 71
	LanguageRust       = 73
)

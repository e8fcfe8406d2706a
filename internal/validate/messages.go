package validate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// keyDefault is the catalog key of the generic failure message.
const keyDefault = "DEFAULT_ERROR"

var supported = []language.Tag{language.English, language.Spanish}

var translations = map[language.Tag]map[string]string{
	language.English: {
		string(CodeEmptyImage):       "A recipe image is required",
		string(CodeEmptyName):        "A recipe name is required",
		string(CodeEmptyCategory):    "Choose a category",
		string(CodeEmptyIngredients): "Add at least one ingredient",
		string(CodeEmptySteps):       "Add at least one step",
		keyDefault:                   "Something went wrong",
	},
	language.Spanish: {
		string(CodeEmptyImage):       "La imagen de la receta es obligatoria",
		string(CodeEmptyName):        "El nombre de la receta es obligatorio",
		string(CodeEmptyCategory):    "Elige una categoría",
		string(CodeEmptyIngredients): "Añade al menos un ingrediente",
		string(CodeEmptySteps):       "Añade al menos un paso",
		keyDefault:                   "Algo salió mal",
	},
}

var (
	messageCatalog = buildCatalog()
	matcher        = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Localizer renders validation failures as user-facing messages.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer picks the closest supported language for locale (a BCP 47
// tag such as "es-MX"). Unknown or empty locales fall back to English.
func NewLocalizer(locale string) *Localizer {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messageCatalog)),
	}
}

// Language returns the resolved language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Message returns the localized text for e, or the generic failure
// message for codes the catalog does not know.
func (l *Localizer) Message(e *Error) string {
	if e == nil {
		return ""
	}
	if _, ok := translations[language.English][string(e.Code)]; !ok {
		return l.Default()
	}
	return l.printer.Sprintf(string(e.Code))
}

// Messages returns one localized message per failing field.
func (l *Localizer) Messages(r Result) map[Field]string {
	out := make(map[Field]string)
	for _, e := range r.Errors() {
		out[e.Field] = l.Message(e)
	}
	return out
}

// Default returns the generic failure message.
func (l *Localizer) Default() string {
	return l.printer.Sprintf(keyDefault)
}

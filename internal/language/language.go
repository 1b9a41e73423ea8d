package language

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry struct {
	ietf    string // IETF / ISO 639-1 code used by pgsrip
	tess    string // Tesseract traineddata code
	display string
}

var languages = []entry{
	{"en", "eng", "english"},
	{"ro", "ron", "romanian"},
	{"it", "ita", "italian"},
	{"es", "spa", "spanish"},
	{"fr", "fra", "french"},
	{"de", "deu", "german"},
	{"pt", "por", "portuguese"},
	{"nl", "nld", "dutch"},
	{"pl", "pol", "polish"},
	{"ru", "rus", "russian"},
	{"ja", "jpn", "japanese"},
	{"ko", "kor", "korean"},
	{"zh", "zho", "chinese"},
	{"sv", "swe", "swedish"},
	{"da", "dan", "danish"},
	{"no", "nor", "norwegian"},
	{"fi", "fin", "finnish"},
	{"hu", "hun", "hungarian"},
	{"cs", "ces", "czech"},
	{"el", "ell", "greek"},
	{"tr", "tur", "turkish"},
}

var (
	byIETF map[string]*entry
	byTess map[string]*entry
)

func init() {
	byIETF = make(map[string]*entry, len(languages))
	byTess = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byIETF[e.ietf] = e
		byTess[e.tess] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byIETF[code]; ok {
		return e
	}
	if e, ok := byTess[code]; ok {
		return e
	}
	return nil
}

// ToTesseract converts a recognized language code to the Tesseract
// traineddata code. Unrecognized three-letter codes pass through so
// languages missing from the table still work when the user supplies the
// Tesseract code directly.
func ToTesseract(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		return e.tess
	}
	if len(code) == 3 {
		return code
	}
	return ""
}

// ToIETF converts a recognized language code to its two-letter IETF form.
// Unrecognized two-letter codes pass through.
func ToIETF(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		return e.ietf
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// TrainedDataFile returns the traineddata file name for a language code,
// e.g. "eng.traineddata". Unrecognized codes fall back to the raw code.
func TrainedDataFile(code string) string {
	tess := ToTesseract(code)
	if tess == "" {
		tess = strings.ToLower(strings.TrimSpace(code))
	}
	return tess + ".traineddata"
}

// DisplayName returns a human-readable name for a recognized code, or
// "Unknown" otherwise.
func DisplayName(code string) string {
	e := lookup(code)
	if e == nil {
		return "Unknown"
	}
	return cases.Title(language.Und).String(e.display)
}

// Valid reports whether code parses as a plausible language identifier:
// either present in the table or accepted by the IETF tag parser.
func Valid(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	if lookup(code) != nil {
		return true
	}
	_, err := language.Parse(code)
	return err == nil
}

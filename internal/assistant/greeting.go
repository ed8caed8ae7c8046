package assistant

import "strings"

// Feste Liste reiner Begrüßungsformen. Der Abgleich ist als
// Ganztext-Treffer verankert – "hi, can you explain chapter 2" ist eine
// echte Frage und darf nicht abgefangen werden.
var greetingForms = map[string]bool{
	"hi":               true,
	"hello":            true,
	"hey":              true,
	"heya":             true,
	"yo":               true,
	"salam":            true,
	"salaam":           true,
	"salam alaikum":    true,
	"assalamu alaikum": true,
	"marhaba":          true,
	"ahlan":            true,
	"good morning":     true,
	"good afternoon":   true,
	"good evening":     true,
}

// IsGreeting meldet, ob ein Freitext eine reine Begrüßung ist.
// Normalisierung: trimmen, Kleinschreibung, Leerraum zusammenfassen,
// nachgestellte Satzzeichen entfernen. Reine Textklassifikation ohne
// Netzwerk- oder Speicherzugriff.
func IsGreeting(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimRight(s, "!.?,;:~ \t؟،")
	s = strings.Join(strings.Fields(s), " ")
	return greetingForms[s]
}

// GreetingReply liefert die lokale Standardantwort auf eine Begrüßung
func GreetingReply(lang Language) string {
	if lang == LangArabic {
		return "أهلاً! أنا مساعد UniShare الدراسي. اسألني أي شيء عن هذا المستند."
	}
	return "Hello! I'm the UniShare study assistant. Ask me anything about this document."
}

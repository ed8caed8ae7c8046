package assistant

import (
	"context"
	"fmt"

	"unishare/internal/content"
)

// ResponseFormat ist der Ausgabeformat-Hinweis für das Modell
type ResponseFormat string

const (
	FormatPlain ResponseFormat = "plain"      // formatierter Fließtext
	FormatJSON  ResponseFormat = "structured" // striktes JSON (nur QUIZ)
)

// Request ist genau eine Anfrage an die generative Fähigkeit:
// Systeminstruktion, Aufgabeninstruktion und normalisierter Dokumentinhalt
type Request struct {
	System  string
	Task    string
	Content *content.Normalized
	Format  ResponseFormat
}

// Response ist die unveränderte Textantwort des Modells
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ModelError bedeutet: der entfernte Aufruf ist fehlgeschlagen –
// fehlende Zugangsdaten, Netzwerkfehler oder ein Fehlerstatus der API.
// Es gibt keinen automatischen Retry.
type ModelError struct {
	Reason string
	Err    error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("modell-fehler: %v", e.Err)
	}
	return fmt.Sprintf("modell-fehler: %s", e.Reason)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Provider definiert das Interface für generative Backends
type Provider interface {
	// Generate sendet genau eine Anfrage und wartet auf genau eine Antwort
	// (kein Streaming, keine Teilergebnisse)
	Generate(ctx context.Context, req *Request) (*Response, error)

	// IsAvailable prüft, ob das Backend nutzbar ist
	IsAvailable(ctx context.Context) bool

	// GetName gibt den Namen des Providers zurück
	GetName() string

	// GetCurrentModel gibt das aktuelle Modell zurück
	GetCurrentModel() string

	// SetModel ändert das verwendete Modell
	SetModel(model string)
}

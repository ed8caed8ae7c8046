package content

import (
	"fmt"
	"net/http"

	"unishare/internal/models"
)

// ExtractionError bedeutet: der Dokumentinhalt war nicht lesbar oder der
// Dateityp wird von der Pipeline nicht unterstützt. Bewusst getrennt vom
// FetchError – das Dokument selbst war erreichbar.
type ExtractionError struct {
	FileType models.FileKind
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inhalt nicht extrahierbar (%s): %v", e.FileType, e.Err)
	}
	return fmt.Sprintf("dateityp wird nicht unterstützt: %s", e.FileType)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Kind unterscheidet die beiden Darstellungen für das Modell
type Kind string

const (
	KindInline Kind = "inline" // Binärinhalt mit Medientyp (pdf, image)
	KindText   Kind = "text"   // extrahierter Klartext (docx)
)

// Normalized ist der modellfertige Dokumentinhalt. Genau eine Variante
// ist belegt: Inline (MediaType+Data) oder Text.
type Normalized struct {
	Kind      Kind
	MediaType string
	Data      []byte
	Text      string
}

// Inline meldet, ob der Inhalt als Binärteil übertragen wird
func (n *Normalized) Inline() bool { return n.Kind == KindInline }

// Normalize wandelt rohe Dokument-Bytes in den modellfertigen Inhalt um.
// pdf/image gehen als Binärteil durch, docx wird zu Klartext extrahiert,
// alles andere wird abgelehnt – die Pipeline hat keinen generischen
// Fallback, und ein falsch geroutetes docx würde die Modellqualität
// unbemerkt verschlechtern.
func Normalize(data []byte, fileType models.FileKind, mediaType string) (*Normalized, error) {
	switch fileType {
	case models.FileKindPDF, models.FileKindImage:
		return &Normalized{
			Kind:      KindInline,
			MediaType: pickMediaType(mediaType, data, fileType),
			Data:      data,
		}, nil

	case models.FileKindDocx:
		text, err := ExtractDocxText(data)
		if err != nil {
			return nil, &ExtractionError{FileType: fileType, Err: err}
		}
		return &Normalized{Kind: KindText, Text: text}, nil

	default:
		return nil, &ExtractionError{FileType: fileType}
	}
}

// pickMediaType nimmt den gemeldeten Medientyp, sonst den erkannten,
// sonst den aus dem deklarierten Dateityp abgeleiteten
func pickMediaType(explicit string, data []byte, fileType models.FileKind) string {
	if explicit != "" {
		return explicit
	}
	if len(data) > 0 {
		if detected := http.DetectContentType(data); detected != "application/octet-stream" {
			return detected
		}
	}
	return fallbackMediaType(fileType)
}

func fallbackMediaType(fileType models.FileKind) string {
	switch fileType {
	case models.FileKindPDF:
		return "application/pdf"
	case models.FileKindDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "image/jpeg"
	}
}

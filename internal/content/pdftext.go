package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText extrahiert den Klartext aus einem PDF-Dokument.
// Wird beim Upload für die Notiz-Suche genutzt; die Assistenten-Pipeline
// reicht PDFs als Binärteil durch und braucht diesen Text nicht.
// Einzelne unlesbare Seiten werden übersprungen.
func ExtractPDFText(data []byte) (text string, pageCount int, err error) {
	// die pdf-Bibliothek paniked bei beschädigten Dateien
	defer func() {
		if r := recover(); r != nil {
			text, pageCount, err = "", 0, fmt.Errorf("beschädigte PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("fehler beim Lesen der PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}

	return strings.TrimSpace(sb.String()), totalPages, nil
}

package assistant

import "strings"

const (
	maxTags      = 8
	maxTagLength = 30
)

// ParseTags liest eine TAGS-Antwort als Schlagwortliste. Getrennt wird
// an Kommas und Zeilenumbrüchen; Markdown-Reste und Hashes werden
// entfernt. Leere und absurd lange Einträge fallen raus, die Liste ist
// begrenzt – eine ausufernde Modellantwort soll keine Notiz fluten.
func ParseTags(raw string) []string {
	raw = StripCodeFences(raw)
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '،'
	})

	var tags []string
	for _, f := range fields {
		tag := strings.TrimSpace(f)
		tag = strings.Trim(tag, "#*`-• \t")
		tag = strings.TrimSpace(tag)
		if tag == "" || len(tag) > maxTagLength {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

package assistant

import (
	"strings"
	"unicode"
)

// LineKind beschreibt die Blockform einer gerenderten Zeile.
type LineKind string

const (
	LineHeading LineKind = "heading"
	LineBullet  LineKind = "bullet"
	LineText    LineKind = "text"
	LineEmpty   LineKind = "empty"
)

// Span ist ein Textabschnitt mit Inline-Auszeichnung.
type Span struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Code   bool   `json:"code,omitempty"`
}

// Line ist eine anzeigefertige Zeile einer Fließtext-Antwort.
type Line struct {
	Kind  LineKind `json:"kind"`
	Level int      `json:"level,omitempty"`
	Spans []Span   `json:"spans,omitempty"`
	RTL   bool     `json:"rtl,omitempty"`
}

// RenderLines zerlegt eine Markdown-Antwort in anzeigefertige Zeilen.
// Überschriften, Aufzählungen und Inline-Auszeichnung werden erkannt,
// alles andere bleibt als einfacher Text erhalten. Die Eingabe wird nie
// verworfen: eine Zeile ohne erkannte Struktur ist eine Textzeile.
func RenderLines(raw string) []Line {
	var lines []Line
	for _, src := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		lines = append(lines, renderLine(src))
	}
	return lines
}

func renderLine(src string) Line {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return Line{Kind: LineEmpty}
	}

	if level := headingLevel(trimmed); level > 0 {
		body := strings.TrimSpace(trimmed[level:])
		return Line{Kind: LineHeading, Level: level, Spans: parseSpans(body), RTL: hasRTL(body)}
	}

	if body, ok := bulletBody(trimmed); ok {
		return Line{Kind: LineBullet, Spans: parseSpans(body), RTL: hasRTL(body)}
	}

	return Line{Kind: LineText, Spans: parseSpans(trimmed), RTL: hasRTL(trimmed)}
}

func headingLevel(s string) int {
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(s) || s[level] != ' ' {
		return 0
	}
	return level
}

func bulletBody(s string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(s[len(prefix):]), true
		}
	}
	// Nummerierte Listen: "1. " bis "99. "
	for i := 0; i < len(s) && i < 2; i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		rest := s[i+1:]
		if strings.HasPrefix(rest, ". ") {
			return strings.TrimSpace(rest[2:]), true
		}
	}
	return "", false
}

// parseSpans zerlegt Inline-Markdown in Abschnitte. Unausgeglichene
// Marker werden als wörtlicher Text behandelt.
func parseSpans(s string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			if end := strings.Index(s[i+2:], "**"); end >= 0 {
				flush()
				spans = append(spans, Span{Text: s[i+2 : i+2+end], Bold: true})
				i += end + 4
				continue
			}
		case s[i] == '*':
			if end := strings.IndexByte(s[i+1:], '*'); end > 0 {
				flush()
				spans = append(spans, Span{Text: s[i+1 : i+1+end], Italic: true})
				i += end + 2
				continue
			}
		case s[i] == '`':
			if end := strings.IndexByte(s[i+1:], '`'); end > 0 {
				flush()
				spans = append(spans, Span{Text: s[i+1 : i+1+end], Code: true})
				i += end + 2
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return spans
}

// hasRTL meldet, ob eine Zeile Zeichen einer Rechts-nach-links-Schrift
// enthält. Arabisch und Hebräisch genügen für die Ausrichtung der UI.
func hasRTL(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Arabic, unicode.Hebrew) {
			return true
		}
	}
	return false
}

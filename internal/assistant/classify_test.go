package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuizJSON = `[
	{"question": "Was ist 2+2?", "options": ["3", "4", "5", "6"], "correctAnswer": 1, "explanation": "Grundrechenart."},
	{"question": "Hauptstadt von Frankreich?", "options": ["Paris", "Rom", "Berlin", "Madrid"], "correctAnswer": 0, "explanation": "Paris."}
]`

func TestClassify(t *testing.T) {
	assert.Equal(t, KindQuiz, Classify(TaskQuiz, "whatever"))
	assert.Equal(t, KindQuiz, Classify(TaskSummary, validQuizJSON))
	assert.Equal(t, KindPlain, Classify(TaskSummary, "# Zusammenfassung\n- Punkt eins"))
	assert.Equal(t, KindPlain, Classify(TaskExplain, "Eine Matrix ist eine Tabelle von Zahlen."))
}

func TestParseQuiz(t *testing.T) {
	questions, err := ParseQuiz(validQuizJSON)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].CorrectAnswer)
	assert.Equal(t, "Paris", questions[1].Options[0])
}

func TestParseQuizStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validQuizJSON + "\n```"
	questions, err := ParseQuiz(fenced)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestParseQuizExtractsEmbeddedArray(t *testing.T) {
	wrapped := "Here is your quiz:\n" + validQuizJSON + "\nGood luck!"
	questions, err := ParseQuiz(wrapped)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestParseQuizRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"kein JSON":        "This is not JSON but mentions question and options.",
		"leeres Array":     "[]",
		"falsche Struktur": `[{"frage": "?"}]`,
		"drei Optionen":    `[{"question": "Q", "options": ["a", "b", "c"], "correctAnswer": 0, "explanation": "e"}]`,
		"Index zu groß":    `[{"question": "Q", "options": ["a", "b", "c", "d"], "correctAnswer": 4, "explanation": "e"}]`,
	}
	for name, raw := range cases {
		_, err := ParseQuiz(raw)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, name)
	}
}

func TestParseQuizOneBadQuestionFailsBatch(t *testing.T) {
	mixed := `[
		{"question": "Gültig?", "options": ["a", "b", "c", "d"], "correctAnswer": 0, "explanation": "ok"},
		{"question": "", "options": ["a", "b", "c", "d"], "correctAnswer": 0, "explanation": "leer"}
	]`
	_, err := ParseQuiz(mixed)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `[1]`, StripCodeFences("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, StripCodeFences("```\n[1]\n```"))
	assert.Equal(t, `[1]`, StripCodeFences("[1]"))
}

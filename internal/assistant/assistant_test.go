package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishare/internal/fetch"
	"unishare/internal/models"
)

type fakeProvider struct {
	text    string
	err     error
	calls   int
	lastReq *Request
}

func (p *fakeProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &Response{Text: p.text, Model: "test-model"}, nil
}

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *fakeProvider) GetName() string                      { return "Fake" }
func (p *fakeProvider) GetCurrentModel() string              { return "test-model" }
func (p *fakeProvider) SetModel(model string)                {}

type fakeFetcher struct {
	result *fetch.Result
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref models.DocumentReference) (*fetch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type memStore struct {
	conversations map[string][]models.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{conversations: make(map[string][]models.ChatMessage)}
}

func (m *memStore) LoadMessages(documentID string) ([]models.ChatMessage, error) {
	return m.conversations[documentID], nil
}

func (m *memStore) SaveMessages(documentID string, messages []models.ChatMessage) error {
	m.conversations[documentID] = messages
	return nil
}

func testDocument() models.DocumentReference {
	return models.DocumentReference{
		ID:       "doc-1",
		URL:      "http://localhost/files/doc-1.pdf",
		FileType: models.FileKindPDF,
	}
}

func pdfFetcher() *fakeFetcher {
	return &fakeFetcher{result: &fetch.Result{
		Data:      []byte("%PDF-1.4 inhalt"),
		MediaType: "application/pdf",
	}}
}

func TestRunSummaryAppendsBothTurns(t *testing.T) {
	provider := &fakeProvider{text: "## Kernideen\n- **Vektoren** sind gerichtete Größen"}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskSummary,
		Language: LangEnglish,
		Document: testDocument(),
	})
	require.NoError(t, err)

	assert.Equal(t, ReplyPlain, reply.Kind)
	require.NotEmpty(t, reply.Lines)
	assert.Equal(t, LineHeading, reply.Lines[0].Kind)

	messages := store.conversations["doc-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "Summarize this document", messages[0].Content)
	assert.Equal(t, models.RoleModel, messages[1].Role)
	assert.Equal(t, provider.text, messages[1].Content)
}

func TestRunComposesPromptsAndFormat(t *testing.T) {
	provider := &fakeProvider{text: `[{"question": "Q1", "options": ["a", "b", "c", "d"], "correctAnswer": 1, "explanation": "b"}]`}
	a := NewAssistant(provider, pdfFetcher(), newMemStore())

	_, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskQuiz,
		Language: LangArabic,
		Document: testDocument(),
	})
	require.NoError(t, err)

	require.NotNil(t, provider.lastReq)
	assert.Contains(t, provider.lastReq.System, "Arabic")
	assert.Contains(t, provider.lastReq.Task, "QUIZ")
	assert.Equal(t, FormatJSON, provider.lastReq.Format)
	assert.Equal(t, "application/pdf", provider.lastReq.Content.MediaType)
}

func TestRunQuizEndToEnd(t *testing.T) {
	provider := &fakeProvider{text: `[{"question": "Q1", "options": ["a", "b", "c", "d"], "correctAnswer": 1, "explanation": "b is right"}]`}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskQuiz,
		Language: LangEnglish,
		Document: testDocument(),
	})
	require.NoError(t, err)

	assert.Equal(t, ReplyQuiz, reply.Kind)
	require.Len(t, reply.Quiz, 1)

	attempt := NewAttempt(reply.Quiz)
	require.NoError(t, attempt.Select(0, 1))
	score, err := attempt.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	// Rohantwort landet im Verlauf
	messages := store.conversations["doc-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, provider.text, messages[1].Content)
}

func TestRunQuizParseErrorWritesNothing(t *testing.T) {
	provider := &fakeProvider{text: "This is not JSON but mentions question and options."}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	_, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskQuiz,
		Language: LangEnglish,
		Document: testDocument(),
	})

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	// Nur der Nutzer-Zug steht im Verlauf, keine Modellnachricht
	messages := store.conversations["doc-1"]
	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleUser, messages[0].Role)
}

func TestRunGreetingSkipsDispatch(t *testing.T) {
	provider := &fakeProvider{text: "sollte nie gesendet werden"}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskExplain,
		Language: LangEnglish,
		Query:    "Hello!",
		Document: testDocument(),
	})
	require.NoError(t, err)

	assert.Equal(t, ReplyGreeting, reply.Kind)
	assert.Zero(t, provider.calls)

	messages := store.conversations["doc-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello!", messages[0].Content)
	assert.Equal(t, GreetingReply(LangEnglish), messages[1].Content)
}

func TestRunFetchFailureAppendsApology(t *testing.T) {
	provider := &fakeProvider{}
	fetcher := &fakeFetcher{err: &fetch.FetchError{URL: "http://localhost/files/doc-1.pdf", StatusCode: 404}}
	store := newMemStore()
	a := NewAssistant(provider, fetcher, store)

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskSummary,
		Language: LangEnglish,
		Document: testDocument(),
	})
	require.NoError(t, err)

	assert.Equal(t, "fetch", reply.ErrorKind)
	assert.Zero(t, provider.calls)

	messages := store.conversations["doc-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, apology(LangEnglish), messages[1].Content)
}

func TestRunExtractionFailureAppendsApology(t *testing.T) {
	provider := &fakeProvider{}
	fetcher := &fakeFetcher{result: &fetch.Result{Data: []byte("kein docx")}}
	store := newMemStore()
	a := NewAssistant(provider, fetcher, store)

	doc := testDocument()
	doc.FileType = models.FileKindDocx

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskSummary,
		Language: LangArabic,
		Document: doc,
	})
	require.NoError(t, err)

	assert.Equal(t, "extraction", reply.ErrorKind)
	assert.Zero(t, provider.calls)

	messages := store.conversations["doc-1"]
	require.Len(t, messages, 2)
	assert.Equal(t, apology(LangArabic), messages[1].Content)
}

func TestRunModelFailureAppendsApology(t *testing.T) {
	provider := &fakeProvider{err: &ModelError{Reason: "kontingent erschöpft"}}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	reply, err := a.Run(context.Background(), TaskRequest{
		Task:     TaskRoadmap,
		Language: LangEnglish,
		Document: testDocument(),
	})
	require.NoError(t, err)

	assert.Equal(t, "model", reply.ErrorKind)
	require.Len(t, store.conversations["doc-1"], 2)
}

func TestRunValidation(t *testing.T) {
	a := NewAssistant(&fakeProvider{}, pdfFetcher(), newMemStore())

	_, err := a.Run(context.Background(), TaskRequest{Task: TaskSummary})
	assert.Error(t, err, "fehlende Dokumentreferenz")

	_, err = a.Run(context.Background(), TaskRequest{Task: TaskExplain, Document: testDocument()})
	assert.Error(t, err, "EXPLAIN ohne Frage")

	_, err = a.Run(context.Background(), TaskRequest{Task: "UNSINN", Document: testDocument()})
	assert.Error(t, err)
}

func TestRunTagsEndToEnd(t *testing.T) {
	provider := &fakeProvider{text: "algebra, calculus, vectors"}
	store := newMemStore()
	a := NewAssistant(provider, pdfFetcher(), store)

	tags, err := a.RunTags(context.Background(), TaskRequest{
		Task:     TaskTags,
		Document: testDocument(),
	})
	require.NoError(t, err)

	require.Len(t, tags, 3)
	for _, tag := range tags {
		assert.Less(t, len(tag), 20)
	}

	// Tagging schreibt nicht in den Gesprächsverlauf
	assert.Empty(t, store.conversations["doc-1"])
}

func TestRunTagsUnusableAnswerFails(t *testing.T) {
	provider := &fakeProvider{text: "   \n , ,"}
	a := NewAssistant(provider, pdfFetcher(), newMemStore())

	_, err := a.RunTags(context.Background(), TaskRequest{
		Task:     TaskTags,
		Document: testDocument(),
	})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

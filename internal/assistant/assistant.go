package assistant

import (
	"context"
	"errors"
	"log"
	"time"

	"unishare/internal/content"
	"unishare/internal/fetch"
	"unishare/internal/models"
)

// Fetcher lädt die Bytes hinter einer Dokumentreferenz.
type Fetcher interface {
	Fetch(ctx context.Context, ref models.DocumentReference) (*fetch.Result, error)
}

// greetingDelay lässt die Begrüßungsantwort kurz "nachdenken", damit
// sie sich nicht von einer echten Modellantwort abhebt.
const greetingDelay = 600 * time.Millisecond

// ReplyKind benennt die Form einer Assistenten-Antwort.
type ReplyKind string

const (
	ReplyPlain    ReplyKind = "plain"
	ReplyQuiz     ReplyKind = "quiz"
	ReplyGreeting ReplyKind = "greeting"
)

// Reply ist das Ergebnis eines Pipeline-Durchlaufs. Message ist die
// persistierte Modellnachricht; Lines bzw. Quiz sind die
// anzeigefertige Auswertung. ErrorKind ist gesetzt, wenn die Pipeline
// mit einer Entschuldigung statt einer echten Antwort geendet hat.
type Reply struct {
	Kind      ReplyKind            `json:"kind"`
	Message   *models.ChatMessage  `json:"message,omitempty"`
	Lines     []Line               `json:"lines,omitempty"`
	Quiz      []QuizQuestion       `json:"quiz,omitempty"`
	ErrorKind string               `json:"error_kind,omitempty"`
}

// Assistant verdrahtet Abruf, Normalisierung, Prompt-Aufbau, Modellaufruf
// und Gesprächsverlauf zu einer Pipeline pro Anfrage.
type Assistant struct {
	provider Provider
	fetcher  Fetcher
	store    Persistence
}

// NewAssistant erstellt die Pipeline über den gegebenen Abhängigkeiten.
func NewAssistant(provider Provider, fetcher Fetcher, store Persistence) *Assistant {
	return &Assistant{provider: provider, fetcher: fetcher, store: store}
}

// Run führt genau eine Assistenten-Anfrage aus. Der Nutzer-Zug wird
// sofort in den Verlauf geschrieben; danach entscheidet die Pipeline:
// Begrüßungen werden lokal beantwortet, alles andere geht durch
// Abruf → Normalisierung → Modellaufruf. Fehler entlang des Wegs werden
// als Entschuldigung in den Verlauf geschrieben, damit das Gespräch
// lesbar bleibt – mit einer Ausnahme: ein unlesbares Quiz schreibt
// nichts und meldet den Fehler direkt, die Frage des Nutzers bleibt
// als letzte Nachricht stehen.
func (a *Assistant) Run(ctx context.Context, req TaskRequest) (*Reply, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	conv, err := OpenConversation(a.store, req.Document.ID)
	if err != nil {
		return nil, err
	}

	if _, err := conv.Append(models.RoleUser, userTurn(req)); err != nil {
		return nil, err
	}

	if req.Task == TaskExplain && IsGreeting(req.Query) {
		return a.replyGreeting(ctx, conv, req.Language)
	}

	raw, err := a.dispatch(ctx, req)
	if err != nil {
		return a.replyFailure(ctx, conv, req.Language, err)
	}

	// Abbruch nach dem Modellaufruf: Ergebnis verwerfen, Verlauf nicht
	// mehr anfassen
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if Classify(req.Task, raw) == KindQuiz {
		questions, err := ParseQuiz(raw)
		if err != nil {
			return nil, err
		}
		msg, err := conv.Append(models.RoleModel, raw)
		if err != nil {
			return nil, err
		}
		return &Reply{Kind: ReplyQuiz, Message: &msg, Quiz: questions}, nil
	}

	msg, err := conv.Append(models.RoleModel, raw)
	if err != nil {
		return nil, err
	}
	return &Reply{Kind: ReplyPlain, Message: &msg, Lines: RenderLines(raw)}, nil
}

// RunTags erzeugt Schlagwörter für ein Dokument. Läuft außerhalb des
// Gesprächsverlaufs – Tagging ist Metadatenpflege, kein Chat.
func (a *Assistant) RunTags(ctx context.Context, req TaskRequest) ([]string, error) {
	req.Task = TaskTags
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := a.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	tags := ParseTags(raw)
	if len(tags) == 0 {
		return nil, &ParseError{Reason: "keine verwertbaren schlagwörter in der antwort"}
	}
	return tags, nil
}

// dispatch lädt das Dokument, normalisiert den Inhalt und ruft das
// Modell auf. Läuft auf einem vom Aufrufer entkoppelten Kontext: ein
// abgebrochener Request soll einen bereits laufenden Modellaufruf nicht
// mittendrin abreißen.
func (a *Assistant) dispatch(ctx context.Context, req TaskRequest) (string, error) {
	detached := context.WithoutCancel(ctx)

	fetched, err := a.fetcher.Fetch(detached, req.Document)
	if err != nil {
		return "", err
	}

	normalized, err := content.Normalize(fetched.Data, req.Document.FileType, fetched.MediaType)
	if err != nil {
		return "", err
	}

	system, task := ComposePrompts(req)
	resp, err := a.provider.Generate(detached, &Request{
		System:  system,
		Task:    task,
		Content: normalized,
		Format:  ResponseFormatFor(req.Task),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// replyGreeting beantwortet eine reine Begrüßung lokal, ohne Abruf und
// ohne Modellaufruf.
func (a *Assistant) replyGreeting(ctx context.Context, conv *ConversationLog, lang Language) (*Reply, error) {
	select {
	case <-time.After(greetingDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	msg, err := conv.Append(models.RoleModel, GreetingReply(lang))
	if err != nil {
		return nil, err
	}
	return &Reply{Kind: ReplyGreeting, Message: &msg, Lines: RenderLines(msg.Content)}, nil
}

// replyFailure schreibt eine Entschuldigung in den Verlauf und meldet
// die Fehlerart an den Aufrufer. Bei abgebrochenem Kontext bleibt der
// Verlauf unberührt.
func (a *Assistant) replyFailure(ctx context.Context, conv *ConversationLog, lang Language, cause error) (*Reply, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	kind := "model"
	var fetchErr *fetch.FetchError
	var extractErr *content.ExtractionError
	var modelErr *ModelError
	switch {
	case errors.As(cause, &fetchErr):
		kind = "fetch"
	case errors.As(cause, &extractErr):
		kind = "extraction"
	case errors.As(cause, &modelErr):
		kind = "model"
	default:
		return nil, cause
	}
	log.Printf("⚠️ Pipeline-Fehler (%s): %v", kind, cause)

	msg, err := conv.Append(models.RoleModel, apology(lang))
	if err != nil {
		return nil, err
	}
	return &Reply{
		Kind:      ReplyPlain,
		Message:   &msg,
		Lines:     RenderLines(msg.Content),
		ErrorKind: kind,
	}, nil
}

func apology(lang Language) string {
	if lang == LangArabic {
		return "عذراً، لم أتمكن من معالجة هذا الطلب. يرجى المحاولة مرة أخرى."
	}
	return "Sorry, I couldn't process that request. Please try again."
}

// userTurn ist der Verlaufseintrag für den Nutzer-Zug: bei EXPLAIN der
// Freitext, bei den Schnellaktionen ein lesbares Etikett.
func userTurn(req TaskRequest) string {
	if req.Task == TaskExplain {
		return req.Query
	}
	labels := map[TaskType][2]string{
		TaskSummary: {"Summarize this document", "لخص هذا المستند"},
		TaskQuiz:    {"Quiz me on this document", "اختبرني في هذا المستند"},
		TaskRoadmap: {"Create a study roadmap", "أنشئ خطة دراسية"},
		TaskTags:    {"Suggest tags", "اقترح وسوماً"},
	}
	pair, ok := labels[req.Task]
	if !ok {
		return string(req.Task)
	}
	if req.Language == LangArabic {
		return pair[1]
	}
	return pair[0]
}

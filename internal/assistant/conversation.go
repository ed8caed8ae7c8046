package assistant

import (
	"time"

	"github.com/google/uuid"

	"unishare/internal/models"
)

// Persistence speichert Gesprächsverläufe pro Dokument. Die
// SQLite-Implementierung liegt im storage-Paket; Tests verwenden eine
// In-Memory-Variante.
type Persistence interface {
	LoadMessages(documentID string) ([]models.ChatMessage, error)
	SaveMessages(documentID string, messages []models.ChatMessage) error
}

// ConversationLog ist der geladene Verlauf eines Dokuments. Jede
// Änderung wird sofort vollständig zurückgeschrieben, damit nach einem
// Neustart nichts fehlt.
type ConversationLog struct {
	documentID string
	store      Persistence
	messages   []models.ChatMessage
}

// OpenConversation lädt den Verlauf eines Dokuments. Ein fehlender oder
// unlesbarer Verlauf ist kein Fehler, nur ein leerer.
func OpenConversation(store Persistence, documentID string) (*ConversationLog, error) {
	messages, err := store.LoadMessages(documentID)
	if err != nil {
		return nil, err
	}
	return &ConversationLog{documentID: documentID, store: store, messages: messages}, nil
}

// Append hängt eine Nachricht an und persistiert den Verlauf synchron.
func (c *ConversationLog) Append(role, content string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	c.messages = append(c.messages, msg)
	if err := c.store.SaveMessages(c.documentID, c.messages); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Clear verwirft den Verlauf dauerhaft.
func (c *ConversationLog) Clear() error {
	c.messages = nil
	return c.store.SaveMessages(c.documentID, nil)
}

// Messages liefert eine Kopie des Verlaufs in Einfügereihenfolge.
func (c *ConversationLog) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"unishare/internal/assistant"
	"unishare/internal/config"
	"unishare/internal/content"
	"unishare/internal/fetch"
	"unishare/internal/models"
	"unishare/internal/storage"
)

// Handler verwaltet alle API-Endpunkte
type Handler struct {
	store     storage.Storage
	provider  assistant.Provider
	assistant *assistant.Assistant
	config    *config.Config

	mu       sync.Mutex
	busy     map[string]bool               // laufende Assistenten-Anfragen pro Dokument
	attempts map[string]*assistant.Attempt // aktueller Quizversuch pro Dokument
	tagErr   map[string]string             // letzter Tagging-Fehler pro Dokument
}

// NewHandler erstellt einen neuen API-Handler
func NewHandler(store storage.Storage, provider assistant.Provider, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		provider:  provider,
		assistant: assistant.NewAssistant(provider, fetch.NewFetcher(), store),
		config:    cfg,
		busy:      make(map[string]bool),
		attempts:  make(map[string]*assistant.Attempt),
		tagErr:    make(map[string]string),
	}
}

// Response-Helper
func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// acquire reserviert die Assistenten-Pipeline für ein Dokument.
// Pro Gespräch läuft höchstens ein Modellaufruf gleichzeitig.
func (h *Handler) acquire(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.busy[id] {
		return false
	}
	h.busy[id] = true
	return true
}

func (h *Handler) release(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.busy, id)
}

// === System Endpoints ===

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	jsonResponse(w, map[string]interface{}{
		"status":       "ok",
		"ai_available": h.provider.IsAvailable(ctx),
		"ai_provider":  h.provider.GetName(),
		"timestamp":    time.Now(),
	}, http.StatusOK)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	notes, _ := h.store.GetAllNotes("")

	jsonResponse(w, map[string]interface{}{
		"notes_count":    len(notes),
		"ai_available":   h.provider.IsAvailable(r.Context()),
		"ai_provider":    h.provider.GetName(),
		"ai_model":       h.provider.GetCurrentModel(),
		"documents_path": h.config.DocumentsPath,
	}, http.StatusOK)
}

// === Notizen ===

func (h *Handler) GetNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.GetAllNotes(r.URL.Query().Get("q"))
	if err != nil {
		errorResponse(w, "Fehler beim Laden der Notizen", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	}, http.StatusOK)
}

func (h *Handler) UploadNote(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(50 << 20)

	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "Keine Datei gefunden", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errorResponse(w, "Fehler beim Lesen der Datei", http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	id := uuid.New().String()
	filename := id + ext

	if err := os.MkdirAll(h.config.DocumentsPath, 0755); err != nil {
		errorResponse(w, "Fehler beim Speichern", http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(filepath.Join(h.config.DocumentsPath, filename), data, 0644); err != nil {
		errorResponse(w, "Fehler beim Speichern", http.StatusInternalServerError)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, ext)
	}

	kind := models.FileKindFromExtension(ext)
	note := &models.Note{
		ID:          id,
		Title:       title,
		Description: r.FormValue("description"),
		Program:     r.FormValue("program"),
		Course:      r.FormValue("course"),
		FileURL:     h.config.BaseURL + "/files/" + filename,
		FileType:    kind,
		Content:     extractSearchText(data, kind),
		UploadedAt:  time.Now(),
	}

	if err := h.store.SaveNote(note); err != nil {
		errorResponse(w, "Fehler beim Speichern", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, note, http.StatusCreated)
}

// extractSearchText holt Klartext für die Volltextsuche aus der Datei.
// Nicht extrahierbare Formate ergeben einfach keinen Suchtext.
func extractSearchText(data []byte, kind models.FileKind) string {
	switch kind {
	case models.FileKindPDF:
		text, _, err := content.ExtractPDFText(data)
		if err != nil {
			return ""
		}
		return text
	case models.FileKindDocx:
		text, err := content.ExtractDocxText(data)
		if err != nil {
			return ""
		}
		return text
	}
	return ""
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.GetNote(mux.Vars(r)["id"])
	if err != nil {
		errorResponse(w, "Notiz nicht gefunden", http.StatusNotFound)
		return
	}
	jsonResponse(w, note, http.StatusOK)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	note, err := h.store.GetNote(id)
	if err != nil {
		errorResponse(w, "Notiz nicht gefunden", http.StatusNotFound)
		return
	}

	if idx := strings.LastIndex(note.FileURL, "/files/"); idx >= 0 {
		os.Remove(filepath.Join(h.config.DocumentsPath, note.FileURL[idx+len("/files/"):]))
	}

	if err := h.store.DeleteNote(id); err != nil {
		errorResponse(w, "Fehler beim Löschen", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	delete(h.attempts, id)
	delete(h.tagErr, id)
	h.mu.Unlock()

	jsonResponse(w, map[string]string{"message": "Notiz gelöscht"}, http.StatusOK)
}

// === Assistent ===

// RunAssistant führt eine Assistenten-Anfrage für ein Dokument aus
func (h *Handler) RunAssistant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	note, err := h.store.GetNote(id)
	if err != nil {
		errorResponse(w, "Notiz nicht gefunden", http.StatusNotFound)
		return
	}

	var body struct {
		Task     string `json:"task"`
		Language string `json:"language"`
		Query    string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errorResponse(w, "Ungültige Anfrage", http.StatusBadRequest)
		return
	}

	task, err := assistant.ParseTaskType(body.Task)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if task == assistant.TaskTags {
		errorResponse(w, "Tagging läuft über /notes/{id}/tags", http.StatusBadRequest)
		return
	}
	lang, err := assistant.ParseLanguage(body.Language)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.acquire(id) {
		errorResponse(w, "Der Assistent bearbeitet bereits eine Anfrage für dieses Dokument", http.StatusTooManyRequests)
		return
	}
	defer h.release(id)

	reply, err := h.assistant.Run(r.Context(), assistant.TaskRequest{
		Task:     task,
		Language: lang,
		Query:    body.Query,
		Document: note.Reference(),
	})
	if err != nil {
		var parseErr *assistant.ParseError
		if errors.As(err, &parseErr) {
			// Quiz unlesbar: nichts wurde persistiert, der Client darf
			// direkt neu anfordern
			jsonResponse(w, map[string]interface{}{
				"error": "Die Quiz-Antwort war nicht lesbar",
				"retry": true,
			}, http.StatusUnprocessableEntity)
			return
		}
		errorResponse(w, fmt.Sprintf("Assistent fehlgeschlagen: %v", err), http.StatusInternalServerError)
		return
	}

	if reply.Kind == assistant.ReplyQuiz {
		h.mu.Lock()
		h.attempts[id] = assistant.NewAttempt(reply.Quiz)
		h.mu.Unlock()
	}

	jsonResponse(w, reply, http.StatusOK)
}

// === Chat ===

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	messages, err := h.store.LoadMessages(id)
	if err != nil {
		errorResponse(w, "Fehler beim Laden des Verlaufs", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, models.Conversation{
		DocumentID: id,
		Messages:   messages,
	}, http.StatusOK)
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.SaveMessages(id, nil); err != nil {
		errorResponse(w, "Fehler beim Löschen des Verlaufs", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"message": "Verlauf gelöscht"}, http.StatusOK)
}

// === Quiz ===

func (h *Handler) currentAttempt(id string) *assistant.Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attempts[id]
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	attempt := h.currentAttempt(mux.Vars(r)["id"])
	if attempt == nil {
		errorResponse(w, "Kein aktives Quiz für dieses Dokument", http.StatusNotFound)
		return
	}
	jsonResponse(w, attempt.View(), http.StatusOK)
}

func (h *Handler) SelectQuizAnswer(w http.ResponseWriter, r *http.Request) {
	attempt := h.currentAttempt(mux.Vars(r)["id"])
	if attempt == nil {
		errorResponse(w, "Kein aktives Quiz für dieses Dokument", http.StatusNotFound)
		return
	}

	var body struct {
		Question int `json:"question"`
		Option   int `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errorResponse(w, "Ungültige Anfrage", http.StatusBadRequest)
		return
	}

	if err := attempt.Select(body.Question, body.Option); err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, attempt.View(), http.StatusOK)
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	attempt := h.currentAttempt(mux.Vars(r)["id"])
	if attempt == nil {
		errorResponse(w, "Kein aktives Quiz für dieses Dokument", http.StatusNotFound)
		return
	}

	if _, err := attempt.Submit(); err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, attempt.View(), http.StatusOK)
}

// === Tags ===

// GenerateTags lässt das Modell Schlagwörter vorschlagen und speichert
// sie an der Notiz. Schlägt der Lauf fehl, bleiben vorhandene Tags
// unangetastet.
func (h *Handler) GenerateTags(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	note, err := h.store.GetNote(id)
	if err != nil {
		errorResponse(w, "Notiz nicht gefunden", http.StatusNotFound)
		return
	}

	if !h.acquire(id) {
		errorResponse(w, "Der Assistent bearbeitet bereits eine Anfrage für dieses Dokument", http.StatusTooManyRequests)
		return
	}
	defer h.release(id)

	tags, err := h.assistant.RunTags(r.Context(), assistant.TaskRequest{
		Task:     assistant.TaskTags,
		Language: assistant.LangEnglish,
		Document: note.Reference(),
	})
	if err != nil {
		h.mu.Lock()
		h.tagErr[id] = err.Error()
		h.mu.Unlock()
		errorResponse(w, "Tagging fehlgeschlagen, bitte erneut versuchen", http.StatusBadGateway)
		return
	}

	if err := h.store.UpdateNoteTags(id, tags); err != nil {
		errorResponse(w, "Fehler beim Speichern der Tags", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	delete(h.tagErr, id)
	h.mu.Unlock()

	jsonResponse(w, map[string]interface{}{"id": id, "tags": tags}, http.StatusOK)
}

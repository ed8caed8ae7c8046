package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter erstellt den HTTP-Router mit allen Endpoints
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	// API-Version
	api := r.PathPrefix("/api/v1").Subrouter()

	// System
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/status", h.GetStatus).Methods("GET")

	// Notizen
	api.HandleFunc("/notes", h.GetNotes).Methods("GET")
	api.HandleFunc("/notes", h.UploadNote).Methods("POST")
	api.HandleFunc("/notes/{id}", h.GetNote).Methods("GET")
	api.HandleFunc("/notes/{id}", h.DeleteNote).Methods("DELETE")

	// Assistent
	api.HandleFunc("/notes/{id}/assistant", h.RunAssistant).Methods("POST")

	// Chat-Verlauf
	api.HandleFunc("/notes/{id}/chat", h.GetChat).Methods("GET")
	api.HandleFunc("/notes/{id}/chat", h.ClearChat).Methods("DELETE")

	// Quiz
	api.HandleFunc("/notes/{id}/quiz", h.GetQuiz).Methods("GET")
	api.HandleFunc("/notes/{id}/quiz/answer", h.SelectQuizAnswer).Methods("POST")
	api.HandleFunc("/notes/{id}/quiz/submit", h.SubmitQuiz).Methods("POST")

	// Tags
	api.HandleFunc("/notes/{id}/tags", h.GenerateTags).Methods("POST")

	// Hochgeladene Dokumente
	r.PathPrefix("/files/").Handler(
		http.StripPrefix("/files/", http.FileServer(http.Dir(h.config.DocumentsPath))))

	// CORS für lokale Entwicklung
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

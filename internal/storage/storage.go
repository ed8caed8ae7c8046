package storage

import (
	"database/sql"
	"encoding/json"

	"unishare/internal/models"

	_ "modernc.org/sqlite"
)

// Storage definiert das Interface für Datenpersistenz
type Storage interface {
	// Notizen
	SaveNote(note *models.Note) error
	GetNote(id string) (*models.Note, error)
	GetAllNotes(query string) ([]models.Note, error)
	UpdateNoteTags(id string, tags []string) error
	DeleteNote(id string) error

	// Gesprächsverläufe
	LoadMessages(documentID string) ([]models.ChatMessage, error)
	SaveMessages(documentID string, messages []models.ChatMessage) error

	Close() error
}

// SQLiteStorage implementiert Storage mit SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage erstellt eine neue SQLite-Storage-Instanz
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		program TEXT,
		course TEXT,
		file_url TEXT NOT NULL,
		file_type TEXT NOT NULL,
		content TEXT,
		tags TEXT,
		uploaded_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conversations (
		document_id TEXT PRIMARY KEY,
		messages TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_course ON notes(course);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Notizen

func (s *SQLiteStorage) SaveNote(note *models.Note) error {
	tags, _ := json.Marshal(note.Tags)
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO notes (id, title, description, program, course, file_url, file_type, content, tags, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.Title, note.Description, note.Program, note.Course, note.FileURL, string(note.FileType), note.Content, string(tags), note.UploadedAt)
	return err
}

func (s *SQLiteStorage) GetNote(id string) (*models.Note, error) {
	var note models.Note
	var fileType, tags string
	err := s.db.QueryRow(`
		SELECT id, title, description, program, course, file_url, file_type, content, tags, uploaded_at
		FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.Title, &note.Description, &note.Program, &note.Course, &note.FileURL, &fileType, &note.Content, &tags, &note.UploadedAt)
	if err != nil {
		return nil, err
	}
	note.FileType = models.FileKind(fileType)
	json.Unmarshal([]byte(tags), &note.Tags)
	return &note, nil
}

// GetAllNotes liefert alle Notizen, neueste zuerst. Ein nicht-leerer
// Suchbegriff filtert über Titel, Beschreibung, Kurs und extrahierten
// Inhalt.
func (s *SQLiteStorage) GetAllNotes(query string) ([]models.Note, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if query == "" {
		rows, err = s.db.Query(`
			SELECT id, title, description, program, course, file_url, file_type, tags, uploaded_at
			FROM notes ORDER BY uploaded_at DESC
		`)
	} else {
		like := "%" + query + "%"
		rows, err = s.db.Query(`
			SELECT id, title, description, program, course, file_url, file_type, tags, uploaded_at
			FROM notes
			WHERE title LIKE ? OR description LIKE ? OR course LIKE ? OR content LIKE ?
			ORDER BY uploaded_at DESC
		`, like, like, like, like)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		var fileType, tags string
		if err := rows.Scan(&note.ID, &note.Title, &note.Description, &note.Program, &note.Course, &note.FileURL, &fileType, &tags, &note.UploadedAt); err != nil {
			return nil, err
		}
		note.FileType = models.FileKind(fileType)
		json.Unmarshal([]byte(tags), &note.Tags)
		notes = append(notes, note)
	}
	return notes, nil
}

func (s *SQLiteStorage) UpdateNoteTags(id string, tags []string) error {
	tagsJSON, _ := json.Marshal(tags)
	_, err := s.db.Exec(`UPDATE notes SET tags = ? WHERE id = ?`, string(tagsJSON), id)
	return err
}

// DeleteNote entfernt die Notiz samt zugehörigem Gesprächsverlauf
func (s *SQLiteStorage) DeleteNote(id string) error {
	if _, err := s.db.Exec(`DELETE FROM conversations WHERE document_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	return err
}

// Gesprächsverläufe

// LoadMessages lädt den Verlauf eines Dokuments. Fehlende Zeilen und
// unlesbares JSON ergeben einen leeren Verlauf, keinen Fehler – ein
// kaputter Verlauf darf den Assistenten nicht blockieren.
func (s *SQLiteStorage) LoadMessages(documentID string) ([]models.ChatMessage, error) {
	var raw string
	err := s.db.QueryRow(`
		SELECT messages FROM conversations WHERE document_id = ?
	`, documentID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, nil
	}
	return messages, nil
}

// SaveMessages schreibt den vollständigen Verlauf eines Dokuments. Eine
// leere Liste löscht die Zeile.
func (s *SQLiteStorage) SaveMessages(documentID string, messages []models.ChatMessage) error {
	if len(messages) == 0 {
		_, err := s.db.Exec(`DELETE FROM conversations WHERE document_id = ?`, documentID)
		return err
	}

	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO conversations (document_id, messages)
		VALUES (?, ?)
	`, documentID, string(raw))
	return err
}

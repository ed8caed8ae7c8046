package models

import "time"

// FileKind beschreibt den deklarierten Dateityp eines Dokuments
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
	FileKindDocx  FileKind = "docx"
	FileKindOther FileKind = "other"
)

// FileKindFromExtension leitet den FileKind aus einer Dateiendung ab
func FileKindFromExtension(ext string) FileKind {
	switch ext {
	case ".pdf":
		return FileKindPDF
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return FileKindImage
	case ".docx", ".doc":
		return FileKindDocx
	default:
		return FileKindOther
	}
}

// Note repräsentiert ein hochgeladenes Studiendokument
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Program     string    `json:"program"`
	Course      string    `json:"course"`
	FileURL     string    `json:"file_url"`
	FileType    FileKind  `json:"file_type"`
	Content     string    `json:"content,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Reference liefert die Dokumentreferenz für die Assistenten-Pipeline
func (n *Note) Reference() DocumentReference {
	return DocumentReference{
		ID:       n.ID,
		URL:      n.FileURL,
		FileType: n.FileType,
	}
}

// DocumentReference ist die schreibgeschützte Sicht der Pipeline auf ein Dokument
type DocumentReference struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	FileType FileKind `json:"file_type"`
}

// ChatMessage repräsentiert eine Nachricht im Assistenten-Chat.
// Nach der Erstellung unveränderlich.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, model
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Conversation ist das geordnete Chat-Protokoll zu genau einem Dokument
type Conversation struct {
	DocumentID string        `json:"document_id"`
	Messages   []ChatMessage `json:"messages"`
}

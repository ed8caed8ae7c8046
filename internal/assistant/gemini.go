package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"unishare/internal/content"
)

// GeminiProvider implementiert den Provider für die Gemini-API.
// Der Client wird beim ersten Aufruf aufgebaut und danach
// wiederverwendet.
type GeminiProvider struct {
	apiKey string

	mu     sync.Mutex
	model  string
	client *genai.Client
}

// NewGeminiProvider erstellt einen neuen Gemini-Provider
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	return &GeminiProvider{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

func (p *GeminiProvider) GetName() string { return "Gemini" }

func (p *GeminiProvider) GetCurrentModel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model
}

// SetModel ändert das Standard-Modell
func (p *GeminiProvider) SetModel(model string) {
	if model == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// IsAvailable prüft nur die Vorbedingung – ein Testaufruf gegen die API
// würde Kontingent kosten
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	return p.apiKey != ""
}

// conn liefert den geteilten Client, beim ersten Aufruf wird er erstellt
func (p *GeminiProvider) conn(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		cl, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
		if err != nil {
			return nil, err
		}
		p.client = cl
	}
	return p.client, nil
}

// Close gibt den Client frei. Nach Close ist der Provider unbrauchbar.
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// Generate sendet die Anfrage an Gemini. Fehlende Zugangsdaten werden
// vor jedem Netzwerkzugriff erkannt.
func (p *GeminiProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if p.apiKey == "" {
		return nil, &ModelError{Reason: "GEMINI_API_KEY ist nicht gesetzt"}
	}

	cl, err := p.conn(ctx)
	if err != nil {
		return nil, &ModelError{Err: err}
	}

	model := p.GetCurrentModel()
	m := cl.GenerativeModel(model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}
	if req.Format == FormatJSON {
		m.GenerationConfig = genai.GenerationConfig{
			ResponseMIMEType: "application/json",
		}
	}

	parts := []genai.Part{genai.Text(req.Task)}
	switch req.Content.Kind {
	case content.KindInline:
		parts = append(parts, &genai.Blob{
			MIMEType: req.Content.MediaType,
			Data:     req.Content.Data,
		})
	case content.KindText:
		parts = append(parts, genai.Text("DOCUMENT CONTENT:\n"+req.Content.Text))
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &ModelError{Err: err}
	}

	text := firstText(resp)
	if text == "" {
		return nil, &ModelError{Reason: "leere antwort vom modell"}
	}

	return &Response{Text: text, Model: model}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

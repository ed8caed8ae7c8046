package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"unishare/internal/models"
)

// FetchError bedeutet: das Dokument war nicht erreichbar oder der Server
// hat keinen Erfolgsstatus geliefert
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dokument nicht abrufbar (%d): %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("dokument nicht abrufbar: %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result enthält die rohen Bytes eines Dokuments samt gemeldetem Medientyp
type Result struct {
	Data      []byte
	MediaType string // Content-Type des Servers, ggf. leer
}

// Fetcher lädt Dokument-Bytes über HTTP
type Fetcher struct {
	client *http.Client
}

// NewFetcher erstellt einen neuen Fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Fetch lädt das Dokument hinter der Referenz. Kein Retry, kein Cache –
// Fehler gehen unverändert an den Aufrufer.
func (f *Fetcher) Fetch(ctx context.Context, ref models.DocumentReference) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: ref.URL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: ref.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: ref.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: ref.URL, Err: err}
	}

	mediaType := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	if mediaType == "application/octet-stream" {
		// Generischer Typ hilft der Pipeline nicht weiter
		mediaType = ""
	}

	return &Result{Data: data, MediaType: mediaType}, nil
}

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unishare/internal/models"
)

func ref(url string) models.DocumentReference {
	return models.DocumentReference{ID: "doc-1", URL: url, FileType: models.FileKindPDF}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=utf-8")
		w.Write([]byte("%PDF-1.4 inhalt"))
	}))
	defer srv.Close()

	result, err := NewFetcher().Fetch(context.Background(), ref(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4 inhalt"), result.Data)
	// Charset-Parameter wird abgeschnitten
	assert.Equal(t, "application/pdf", result.MediaType)
}

func TestFetchBlanksOctetStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("daten"))
	}))
	defer srv.Close()

	result, err := NewFetcher().Fetch(context.Background(), ref(srv.URL))
	require.NoError(t, err)
	assert.Empty(t, result.MediaType)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), ref(srv.URL))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), ref(url))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
}

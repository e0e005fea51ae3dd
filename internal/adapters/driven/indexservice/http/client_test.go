package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:           server.URL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestUpload_Success(t *testing.T) {
	var gotUID, gotFilename string
	var gotData []byte

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload_pdf", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotUID = r.FormValue("uid")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotData, err = io.ReadAll(file)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]string{
			"id":          "doc1",
			"filename":    "invoice.pdf",
			"upload_date": "2026-08-01T10:00:00Z",
		})
	})

	record, err := client.Upload(context.Background(), "user-1", "invoice.pdf", []byte("%PDF-"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", gotUID)
	assert.Equal(t, "invoice.pdf", gotFilename)
	assert.Equal(t, []byte("%PDF-"), gotData)
	assert.Equal(t, "doc1", record.ID)
	assert.Equal(t, "invoice.pdf", record.Filename)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), record.UploadedAt)
}

func TestUpload_FillsMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Only the id comes back; the client completes the record.
		json.NewEncoder(w).Encode(map[string]string{"id": "doc1"})
	})

	before := time.Now().UTC()
	record, err := client.Upload(context.Background(), "user-1", "report.docx", []byte("data"))

	require.NoError(t, err)
	assert.Equal(t, "report.docx", record.Filename)
	assert.False(t, record.UploadedAt.Before(before))
}

func TestUpload_DetailError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "unsupported file"})
	})

	_, err := client.Upload(context.Background(), "user-1", "a.pdf", []byte("data"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file")
}

func TestUpload_MissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"filename": "a.pdf"})
	})

	_, err := client.Upload(context.Background(), "user-1", "a.pdf", []byte("data"))
	assert.Error(t, err)
}

func TestLoadIndex_Success(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/load_index", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("{}"))
	})

	err := client.LoadIndex(context.Background(), "user-1", "doc1")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"uid": "user-1", "fileid": "doc1"}, got)
}

func TestLoadIndex_EmbeddedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The service reports some failures in a 2xx body.
		json.NewEncoder(w).Encode(map[string]string{"error": "index not found"})
	})

	err := client.LoadIndex(context.Background(), "user-1", "doc1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index not found")
}

func TestQuery_Success(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"response": "The total is $42."})
	})

	answer, err := client.Query(context.Background(), "user-1", "What is the total?")

	require.NoError(t, err)
	assert.Equal(t, "The total is $42.", answer)
	assert.Equal(t, map[string]string{"query": "What is the total?", "uid": "user-1"}, got)
}

func TestQuery_EmbeddedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "no index loaded"})
	})

	_, err := client.Query(context.Background(), "user-1", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index loaded")
}

func TestDeleteFile(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/delete_file", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	})

	require.NoError(t, client.DeleteFile(context.Background(), "user-1", "doc1"))
	assert.Equal(t, map[string]string{"uid": "user-1", "fileid": "doc1"}, got)
}

func TestClearData(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/clear_data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "cleared"})
	})

	require.NoError(t, client.ClearData(context.Background(), "user-1"))
	assert.Equal(t, map[string]string{"uid": "user-1"}, got)
}

func TestDeleteAccount_DetailError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "account locked"})
	})

	err := client.DeleteAccount(context.Background(), "user-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "account locked")
}

func TestStatusError_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	err := client.LoadIndex(context.Background(), "user-1", "doc1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

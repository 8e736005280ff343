package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.Equal(t, "Knowledge is light", req.Input)
		w.Write([]byte(`{"model":"mistral","embeddings":[[0.1,0.2,0.3]]}`))
	}))
	defer srv.Close()

	vec, err := NewClient(srv.URL, "").Embed(context.Background(), "Knowledge is light")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer empty.Close()
	_, err := NewClient(empty.URL, "").Embed(context.Background(), "x")
	assert.Error(t, err)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer down.Close()
	_, err = NewClient(down.URL, "").Embed(context.Background(), "x")
	assert.Error(t, err)
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	DefaultURL   = "http://localhost:11434/api/embed"
	DefaultModel = "mistral"
)

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ollama returns one embedding per input, we only ever send one input
type response struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Client - Talks to a local Ollama for embeddings
type Client struct {
	URL        string
	Model      string
	HTTPClient *http.Client
}

func NewClient(url string, model string) *Client {
	if url == "" {
		url = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{URL: url, Model: model, HTTPClient: &http.Client{}}
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{Model: c.Model, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request failed: %s", resp.Status)
	}

	var embeddings response
	if err := json.NewDecoder(resp.Body).Decode(&embeddings); err != nil {
		return nil, fmt.Errorf("decoding embedding: %w", err)
	}
	if len(embeddings.Embeddings) == 0 || len(embeddings.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}
	return embeddings.Embeddings[0], nil
}

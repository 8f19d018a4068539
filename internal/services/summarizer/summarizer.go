// Package summarizer формирует краткую выжимку заметок по делу через
// внешний AI-сервис: один запрос, один ответ, без диалогового состояния.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptySummary возвращается, когда модель не вернула текст.
var ErrEmptySummary = errors.New("model returned empty summary")

const summaryPrompt = "You are an experienced legal assistant. Please summarize the following case notes, " +
	"highlighting the most important and relevant information for an upcoming hearing.\n\nCase Notes:\n%s"

// Client — клиент AI-сервиса суммаризации.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент суммаризации.
func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize отправляет заметки по делу модели и возвращает выжимку.
func (c *Client) Summarize(ctx context.Context, caseNotes string) (string, error) {
	const op = "summarizer.Summarize"

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(summaryPrompt, caseNotes)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.apiURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 ||
		genResp.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptySummary)
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

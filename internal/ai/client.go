package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "performance-prime/internal/common/errors"
	commonhttp "performance-prime/internal/common/http"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

// Message is one turn of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completion endpoint. It
// backs the plan explanation text; callers treat failures as soft and
// fall back to canned copy.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: commonhttp.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "ai_client"}),
	}
}

// Complete sends a chat completion request and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", apperrors.NewAISynthesisFailedError(err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewAISynthesisFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return "", apperrors.NewAITimeoutError()
		}
		return "", apperrors.NewAISynthesisFailedError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewAISynthesisFailedError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewAISynthesisFailedError(
			fmt.Errorf("chat completion returned %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.NewAISynthesisFailedError(err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.NewAISynthesisFailedError(fmt.Errorf("empty choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}

// Explain produces a short Italian explanation of a generated plan.
func (c *Client) Explain(ctx context.Context, plan *models.WorkoutPlan) (string, error) {
	var focuses []string
	for _, d := range plan.Days {
		focuses = append(focuses, d.Focus)
	}

	prompt := fmt.Sprintf(
		"Spiega in 2-3 frasi, in italiano e con tono motivante, questo piano di allenamento: obiettivo %q, livello %s, %d giorni a settimana (%s). Non usare elenchi puntati.",
		plan.Goal, plan.Level, plan.Frequency, strings.Join(focuses, ", "))

	return c.Complete(ctx, []Message{
		{Role: "system", Content: "Sei un personal trainer italiano. Rispondi in modo conciso."},
		{Role: "user", Content: prompt},
	})
}

func isTimeout(err error) bool {
	t, ok := err.(interface{ Timeout() bool })
	return ok && t.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package translator

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

// Translator converts a text blob into the target language.
type Translator interface {
	Translate(ctx context.Context, text string, target language.Tag) (string, error)
}

// ServiceError reports a failed call to the translation provider: network
// failure, non-2xx status, or a malformed/empty response. Callers treat all
// variants the same for control flow; the detail exists for logging.
type ServiceError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translation service: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("translation service: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat completion request, OpenAI API compatible.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// ChatResponse is a chat completion response, OpenAI API compatible.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Error   *APIErr  `json:"error,omitempty"`
}

// Choice is one completion alternative.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

// APIErr is the error object embedded in provider responses.
type APIErr struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

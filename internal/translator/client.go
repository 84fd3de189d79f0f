package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/yomisub/yomisub/internal/config"
)

// Client calls an OpenAI-compatible chat completion API to translate text.
// It performs a single request per call; retry policy belongs to the caller.
// Thread-safe for concurrent use.
type Client struct {
	config     config.TranslatorConfig
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a translation client from the given configuration.
func NewClient(cfg config.TranslatorConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("translator API key is required")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("translator API URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		config:  cfg,
		baseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

const systemPromptTemplate = `Translate the text into %s.
The input is several sentences joined together, each ending with a
sentence-terminating punctuation mark. Produce the same number of sentences
in the translation, each ending with a sentence-terminating punctuation mark.
Return only the translated text.`

// Translate sends text to the provider and returns the translated blob.
// Any transport, API, or malformed-response failure is a *ServiceError.
func (c *Client) Translate(ctx context.Context, text string, target language.Tag) (string, error) {
	request := ChatRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, display.English.Tags().Name(target))},
			{Role: "user", Content: text},
		},
	}

	response, err := c.makeRequest(ctx, request)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", &ServiceError{Message: "no choices in response"}
	}
	translated := strings.TrimSpace(response.Choices[0].Message.Content)
	if translated == "" {
		return "", &ServiceError{Message: "empty translation in response"}
	}
	return translated, nil
}

// makeRequest posts a chat completion request to the provider.
func (c *Client) makeRequest(ctx context.Context, payload ChatRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &ServiceError{Message: "marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ServiceError{Message: "create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Message: "read response body", Cause: err}
	}

	var chatResponse ChatResponse
	if err := json.Unmarshal(responseBody, &chatResponse); err != nil {
		return nil, &ServiceError{Message: "parse response", StatusCode: resp.StatusCode, Cause: err}
	}

	if chatResponse.Error != nil && chatResponse.Error.Message != "" {
		return nil, &ServiceError{Message: chatResponse.Error.Message, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			Message:    fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(responseBody))),
			StatusCode: resp.StatusCode,
		}
	}

	return &chatResponse, nil
}

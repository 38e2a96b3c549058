package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls the OpenAI responses API over HTTP.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type OpenAIOption func(*OpenAIClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = url }
}

func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = client }
}

func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"`
}

type inputItem struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type textFormat struct {
	Type   string                 `json:"type"`
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type responsesRequest struct {
	Model           string       `json:"model"`
	Input           []inputItem  `json:"input"`
	Text            *textOptions `json:"text,omitempty"`
	Temperature     float64      `json:"temperature"`
	MaxOutputTokens int          `json:"max_output_tokens,omitempty"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, errors.New("openai: missing API key")
	}

	body := responsesRequest{
		Model: req.Model,
		Input: []inputItem{
			{
				Role:    "system",
				Content: []contentPart{{Type: "input_text", Text: req.Instructions}},
			},
		},
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.File != nil {
		body.Input = append(body.Input, inputItem{
			Role: "user",
			Content: []contentPart{{
				Type:     "input_file",
				Filename: req.File.Name,
				FileData: fmt.Sprintf("data:%s;base64,%s", req.File.MIMEType, req.File.Base64),
			}},
		})
	}
	if req.Schema != nil {
		body.Text = &textOptions{
			Format: textFormat{
				Type:   "json_schema",
				Name:   req.Schema.Name,
				Strict: req.Schema.Strict,
				Schema: req.Schema.Definition,
			},
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("openai: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Keep the body in the error so rate_limit / insufficient_quota
		// codes survive into server logs.
		return nil, fmt.Errorf("openai: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed responsesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("openai: decoding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai: %s (%s)", parsed.Error.Message, parsed.Error.Code)
	}

	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return &Response{Content: []byte(part.Text)}, nil
			}
		}
	}
	return nil, errors.New("openai: no output text in response")
}

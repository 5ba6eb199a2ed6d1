// Package classifier - клиент OpenAI-совместимого /chat/completions
// (Ollama, OpenAI, vLLM), возвращающий сырой JSON с терминами окна.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrRateLimited      = errors.New("classifier rate limited")
	ErrInputTooLarge    = errors.New("window exceeds prompt token budget")
	ErrEmptyResponse    = errors.New("no response from LLM")
	ErrModelUnavailable = errors.New("model is not available")
)

// Config - параметры подключения к LLM
type Config struct {
	URL            string // Базовый адрес, например http://localhost:11434/v1
	Key            string
	Model          string
	Temperature    float64
	MaxTokens      int
	MaxInputTokens int // 0 - без проверки бюджета
}

// StatusError - неуспешный HTTP-ответ LLM
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("LLM returned status %d: %s", e.Code, e.Body)
}

// Client реализует analyzer.Classifier
type Client struct {
	cfg    Config
	http   *http.Client
	budget *Budget
	log    *zap.Logger
}

// Option настраивает клиент
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (таймауты, транспорт, тесты)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New создаёт клиент. Бюджет токенов загружается только при MaxInputTokens > 0.
func New(cfg Config, log *zap.Logger, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("classifier: empty LLM url")
	}
	if cfg.Model == "" {
		return nil, errors.New("classifier: empty model name")
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.MaxInputTokens > 0 {
		b, err := NewBudget(cfg.MaxInputTokens)
		if err != nil {
			return nil, err
		}
		c.budget = b
	}
	return c, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify отправляет текст окна в LLM и возвращает содержимое ответа как есть.
// Разбор ответа - забота terms.Normalize.
func (c *Client) Classify(ctx context.Context, text string) ([]byte, error) {
	user := buildUserPrompt(text)

	if c.budget != nil {
		if err := c.budget.Check(systemPrompt, user); err != nil {
			return nil, err
		}
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		MaxTokens:      c.cfg.MaxTokens,
		Temperature:    c.cfg.Temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/chat/completions"), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %w", ErrRateLimited, statusErr)
		}
		return nil, statusErr
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := response.Choices[0].Message.Content
	c.log.Debug("classifier responded",
		zap.String("model", c.cfg.Model),
		zap.Int("bytes", len(content)),
		zap.Duration("took", time.Since(started)))

	return []byte(content), nil
}

// Ping проверяет, что LLM доступна и настроенная модель есть в списке /models
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/models"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("LLM is not running or not reachable at %s: %w", c.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return fmt.Errorf("failed to decode model list: %w", err)
	}

	for _, m := range list.Data {
		if m.ID == c.cfg.Model {
			c.log.Info("✅ model is available", zap.String("model", c.cfg.Model))
			return nil
		}
	}
	return fmt.Errorf("%w: %s (pull it first, e.g. `ollama pull %s`)", ErrModelUnavailable, c.cfg.Model, c.cfg.Model)
}

// Model возвращает имя модели
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.URL, "/") + path
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Key != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Key)
	}
}

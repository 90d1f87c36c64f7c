package genai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rideshare/pkg/logger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	cachePrefix    = "genai:"
)

var errNoText = errors.New("genai response missing text")

// Cache stores generated text between calls. Any storage.IBlobStorage fits.
type Cache interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Cache   Cache
}

// Client talks to the Gemini generateContent endpoint. Every public method
// degrades to a deterministic fallback, so callers never see an error.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	log        logger.ILogger
}

func New(cfg Config, log logger.ILogger) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cfg.Cache,
		log:   log,
	}
}

// Enabled reports whether a key is configured. Without one every call
// returns its fallback immediately.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type prompt struct {
	text      string
	jsonReply bool
	maxTokens int
}

func (c *Client) generate(ctx context.Context, p prompt) (string, error) {
	if !c.Enabled() {
		return "", errors.New("genai api key is not configured")
	}

	key := c.cacheKey(p)
	if c.cache != nil {
		if cached, ok, err := c.cache.Load(ctx, key); err == nil && ok {
			return string(cached), nil
		}
	}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: p.text}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.4,
			MaxOutputTokens: p.maxTokens,
		},
	}
	if p.jsonReply {
		payload.GenerationConfig.ResponseMIMEType = "application/json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("genai request failed with status %d", resp.StatusCode)
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range envelope.Candidates {
		for _, pt := range cand.Content.Parts {
			sb.WriteString(pt.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := cleanText(sb.String())
	if text == "" {
		return "", errNoText
	}

	c.log.Debug("genai request completed", logger.String("model", c.model), logger.Duration("took", time.Since(start)))

	if c.cache != nil {
		if err := c.cache.Save(ctx, key, []byte(text)); err != nil {
			c.log.Warning("failed to cache genai response", logger.Error(err))
		}
	}
	return text, nil
}

func (c *Client) cacheKey(p prompt) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + p.text))
	return cachePrefix + hex.EncodeToString(sum[:])
}

// cleanText strips markdown code fences models like to wrap replies in.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func (c *Client) fallback(what string, err error) {
	if c.Enabled() {
		c.log.Warning("genai fallback used", logger.String("call", what), logger.Error(err))
	}
}

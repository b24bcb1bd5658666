package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// audioCacheSize bounds the synthesized-audio cache. Entries are keyed by a
// hash of voice and text, so repeated replies are not re-billed.
const audioCacheSize = 128

// ElevenLabsConfig holds configuration for the ElevenLabs client.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	BaseURL string        // optional override, used in tests
	Timeout time.Duration // default: 30s
}

// ElevenLabsClient implements Synthesizer against the ElevenLabs
// text-to-speech API.
type ElevenLabsClient struct {
	cfg    ElevenLabsConfig
	client *http.Client
	cache  *lru.Cache[string, []byte]
}

// NewElevenLabsClient creates a new synthesizer with an LRU audio cache.
func NewElevenLabsClient(cfg ElevenLabsConfig) (*ElevenLabsClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	cache, err := lru.New[string, []byte](audioCacheSize)
	if err != nil {
		return nil, fmt.Errorf("speech: create audio cache: %w", err)
	}

	return &ElevenLabsClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
	}, nil
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize returns MP3 bytes for the given text, serving repeats from the
// cache.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}

	key := c.cacheKey(text)
	if audio, ok := c.cache.Get(key); ok {
		return audio, nil
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: "eleven_monolingual_v1"})
	if err != nil {
		return nil, fmt.Errorf("speech: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, c.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speech: provider returned status %d: %s", resp.StatusCode, string(data))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}

	c.cache.Add(key, audio)
	return audio, nil
}

func (c *ElevenLabsClient) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.cfg.VoiceID + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

var _ Synthesizer = (*ElevenLabsClient)(nil)

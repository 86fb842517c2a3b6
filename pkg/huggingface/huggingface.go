package huggingface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"ClassVision/internal/entity"
)

var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrMissingToken       = errors.New("hugging face API token is required")
)

const (
	defaultModelURL   = "https://api-inference.huggingface.co/models/trpakov/vit-face-expression"
	defaultMaxRetries = 3
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 2 * time.Second
)

type IHuggingFace interface {
	// Classify sends one JPEG-encoded face crop to the inference endpoint
	// and returns the predictions sorted by descending score.
	Classify(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error)
}

type Config struct {
	Token      string
	ModelURL   string
	MaxRetries int
	Timeout    time.Duration
	RetryDelay time.Duration
	HTTPClient *http.Client
}

type hfClient struct {
	token      string
	modelURL   string
	maxRetries int
	timeout    time.Duration
	retryDelay time.Duration
	httpClient *http.Client
	log        *logrus.Logger
}

// New builds a client from the environment: HUGGINGFACE_API_TOKEN,
// HUGGINGFACE_MODEL_URL and HUGGINGFACE_MAX_RETRIES.
func New(log *logrus.Logger) (IHuggingFace, error) {
	token := os.Getenv("HUGGINGFACE_API_TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := Config{
		Token:    token,
		ModelURL: os.Getenv("HUGGINGFACE_MODEL_URL"),
	}
	if retries := os.Getenv("HUGGINGFACE_MAX_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil && n > 0 {
			cfg.MaxRetries = n
		}
	}

	return NewWithConfig(cfg, log), nil
}

// NewWithConfig builds a client with explicit settings. Zero values fall
// back to defaults, which lets tests inject a fake endpoint and short
// retry delays.
func NewWithConfig(cfg Config, log *logrus.Logger) IHuggingFace {
	if cfg.ModelURL == "" {
		cfg.ModelURL = defaultModelURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &hfClient{
		token:      cfg.Token,
		modelURL:   cfg.ModelURL,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		retryDelay: cfg.RetryDelay,
		httpClient: cfg.HTTPClient,
		log:        log,
	}
}

type rawPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

var (
	errModelLoading   = errors.New("model is warming up")
	errRequestTimeout = errors.New("inference request timeout")
)

func (h *hfClient) Classify(ctx context.Context, faceJPEG []byte) ([]entity.EmotionPrediction, error) {
	for attempt := 1; attempt <= h.maxRetries; attempt++ {
		predictions, err := h.attempt(ctx, faceJPEG)
		if err == nil {
			return predictions, nil
		}

		transient := errors.Is(err, errModelLoading) || errors.Is(err, errRequestTimeout)
		if !transient {
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == h.maxRetries {
			return nil, fmt.Errorf("classify after %d attempts: %w", h.maxRetries, ErrMaxRetriesExceeded)
		}

		h.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Transient inference failure, retrying")

		// The warming-up case backs off before the next attempt;
		// a timed-out request retries immediately.
		if errors.Is(err, errModelLoading) {
			if err := h.sleep(ctx); err != nil {
				return nil, err
			}
		}
	}

	return nil, ErrMaxRetriesExceeded
}

// attempt performs one request.
func (h *hfClient) attempt(ctx context.Context, payload []byte) ([]entity.EmotionPrediction, error) {
	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, h.modelURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// A per-attempt deadline is the transient timeout case; a
		// cancelled parent context is not.
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %v", errRequestTimeout, err)
		}
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read inference response: %w", err)
		}

		var raw []rawPrediction
		if err := jsoniter.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse inference response: %w", err)
		}

		return normalize(raw), nil

	case http.StatusServiceUnavailable:
		return nil, errModelLoading

	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference request failed: %d - %s", resp.StatusCode, string(body))
	}
}

func (h *hfClient) sleep(ctx context.Context) error {
	select {
	case <-time.After(h.retryDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// normalize lowercases labels and stable-sorts by descending score, so
// ties keep the response order. An empty prediction set is not an error
// and maps to a single synthetic "unknown" entry.
func normalize(raw []rawPrediction) []entity.EmotionPrediction {
	if len(raw) == 0 {
		return []entity.EmotionPrediction{{Label: "unknown", Score: 0.0}}
	}

	predictions := make([]entity.EmotionPrediction, len(raw))
	for i, p := range raw {
		predictions[i] = entity.EmotionPrediction{
			Label: strings.ToLower(p.Label),
			Score: p.Score,
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})

	return predictions
}

package huggingface

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testClient(t *testing.T, url string, maxRetries int) IHuggingFace {
	t.Helper()
	return NewWithConfig(Config{
		Token:      "test-token",
		ModelURL:   url,
		MaxRetries: maxRetries,
		Timeout:    2 * time.Second,
		RetryDelay: 10 * time.Millisecond,
	}, testLogger())
}

func TestClassify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"label":"Happy","score":0.91},{"label":"Sad","score":0.05},{"label":"Neutral","score":0.04}]`))
	}))
	defer srv.Close()

	predictions, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}

	if len(predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(predictions))
	}
	if predictions[0].Label != "happy" {
		t.Errorf("expected lowercased top label 'happy', got %q", predictions[0].Label)
	}
	if predictions[0].Score != 0.91 {
		t.Errorf("expected top score 0.91, got %v", predictions[0].Score)
	}
}

func TestClassify_SortsDescendingAndStable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Out of order, with a tie between "fear" and "angry".
		w.Write([]byte(`[{"label":"fear","score":0.3},{"label":"HAPPY","score":0.4},{"label":"angry","score":0.3}]`))
	}))
	defer srv.Close()

	predictions, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}

	wantOrder := []string{"happy", "fear", "angry"}
	for i, want := range wantOrder {
		if predictions[i].Label != want {
			t.Errorf("prediction[%d] = %q, want %q", i, predictions[i].Label, want)
		}
	}
}

func TestClassify_EmptyPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	predictions, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("empty prediction set must not be an error, got: %v", err)
	}
	if len(predictions) != 1 {
		t.Fatalf("expected synthetic prediction, got %d entries", len(predictions))
	}
	if predictions[0].Label != "unknown" || predictions[0].Score != 0.0 {
		t.Errorf("expected {unknown 0.0}, got %+v", predictions[0])
	}
}

func TestClassify_RetriesOnModelLoading(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"label":"neutral","score":0.8}]`))
	}))
	defer srv.Close()

	start := time.Now()
	predictions, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("expected success on third attempt, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if predictions[0].Label != "neutral" {
		t.Errorf("unexpected top label %q", predictions[0].Label)
	}
	// Two warm-up responses means two backoff sleeps.
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected backoff between attempts, elapsed %v", elapsed)
	}
}

func TestClassify_RetriesImmediatelyOnTimeout(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			time.Sleep(500 * time.Millisecond)
			return
		}
		w.Write([]byte(`[{"label":"happy","score":0.9}]`))
	}))
	defer srv.Close()

	client := NewWithConfig(Config{
		Token:      "test-token",
		ModelURL:   srv.URL,
		MaxRetries: 3,
		Timeout:    100 * time.Millisecond,
		RetryDelay: 5 * time.Second,
	}, testLogger())

	start := time.Now()
	predictions, err := client.Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("expected success on third attempt, got: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if predictions[0].Label != "happy" {
		t.Errorf("unexpected top label %q", predictions[0].Label)
	}
	// Two timed-out attempts plus the successful one must finish well
	// under a single RetryDelay, proving no backoff on this path.
	if elapsed := time.Since(start); elapsed >= 5*time.Second {
		t.Errorf("timeout retries must not back off, elapsed %v", elapsed)
	}
}

func TestClassify_MaxRetriesExceeded(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("expected ErrMaxRetriesExceeded, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected exactly maxRetries=3 attempts, got %d", attempts)
	}
}

func TestClassify_NonTransientFailsImmediately(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid image"}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL, 3).Classify(context.Background(), []byte("jpeg"))
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if errors.Is(err, ErrMaxRetriesExceeded) {
		t.Error("non-transient failure must not be reported as retry exhaustion")
	}
	if attempts != 1 {
		t.Errorf("expected no retries for non-transient status, got %d attempts", attempts)
	}
}

func TestClassify_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(t, srv.URL, 3).Classify(ctx, []byte("jpeg"))
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

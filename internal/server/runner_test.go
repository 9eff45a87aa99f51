package server

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneCache() int {
	p.calls.Add(1)
	return 1
}

func startRunner(t *testing.T, r *Runner) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	select {
	case <-r.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("timeout waiting for listener")
	}
	return cancel, done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_ServesAndStops(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	runner := NewRunner(mux, Config{Addr: "127.0.0.1:0"}, nil, nil)
	cancel, done := startRunner(t, runner)

	resp, err := http.Get("http://" + runner.Addr().String() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	waitStopped(t, done)
}

func TestRunner_JanitorPrunesCache(t *testing.T) {
	pruner := &countingPruner{}
	runner := NewRunner(http.NewServeMux(), Config{
		Addr:            "127.0.0.1:0",
		JanitorInterval: 10 * time.Millisecond,
	}, pruner, nil)
	cancel, done := startRunner(t, runner)

	require.Eventually(t, func() bool {
		return pruner.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	waitStopped(t, done)
}

func TestRunner_ListenError(t *testing.T) {
	runner := NewRunner(http.NewServeMux(), Config{Addr: "256.0.0.1:99999"}, nil, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

func TestNewRunner_Defaults(t *testing.T) {
	runner := NewRunner(http.NewServeMux(), Config{}, nil, nil)
	require.NotNil(t, runner.logger)
	assert.Equal(t, 10*time.Second, runner.config.ShutdownTimeout)
}

//go:build !integration

package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/config"
)

func TestNewServer_Timeouts(t *testing.T) {
	tests := []struct {
		name           string
		requestTimeout time.Duration
		wantWrite      time.Duration
	}{
		{name: "no request timeout", requestTimeout: 0, wantWrite: 15 * time.Second},
		{name: "short request timeout", requestTimeout: 10 * time.Second, wantWrite: 15 * time.Second},
		{name: "long request timeout", requestTimeout: 30 * time.Second, wantWrite: 35 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(http.NotFoundHandler(), config.ServerConfig{Port: "8080", RequestTimeout: tt.requestTimeout})

			assert.Equal(t, ":8080", s.httpServer.Addr)
			assert.Equal(t, tt.wantWrite, s.httpServer.WriteTimeout)
			assert.Equal(t, readTimeout, s.httpServer.ReadTimeout)
			assert.Equal(t, idleTimeout, s.httpServer.IdleTimeout)
			assert.Equal(t, shutdownTimeout, s.shutdownTimeout)
		})
	}
}

func startServer(t *testing.T, handler http.Handler) (addr string, cancel context.CancelFunc, done <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	s := NewServer(handler, config.ServerConfig{})
	go func() { errCh <- s.Serve(ctx, ln) }()

	return "http://" + ln.Addr().String(), cancel, errCh
}

func TestServer_ServeUntilCancelled(t *testing.T) {
	addr, cancel, done := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	resp, err := http.Get(addr + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_DrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	addr, cancel, done := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, "withdrawn")
	}))

	respCh := make(chan string, 1)
	go func() {
		resp, err := http.Post(addr+"/api/stock/s1/withdraw", "application/json", nil)
		if err != nil {
			respCh <- err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		respCh <- string(body)
	}()

	<-started
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)

	assert.Equal(t, "withdrawn", <-respCh)
	assert.NoError(t, <-done)
}

func TestServer_RunListenError(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), config.ServerConfig{Port: "invalid-port"})

	err := s.Run(context.Background())
	assert.Error(t, err)
}

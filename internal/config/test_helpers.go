package config

import (
	"net/http"
	"testing"
	"time"
)

type mockRoundTripper struct {
	calls   int
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.handler(req)
}

// setFastBackoff shortens retry delays for the duration of a test.
func setFastBackoff(t *testing.T) {
	t.Helper()
	previous := baseBackoff
	baseBackoff = time.Millisecond
	t.Cleanup(func() { baseBackoff = previous })
}

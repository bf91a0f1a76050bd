package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type transportWithLogger struct {
	Transport http.RoundTripper
}

// NewTransportWithLogger wraps transport so every outbound provider call is logged
// with status and latency. Request bodies are never logged: they carry credentials
// and personal data.
func NewTransportWithLogger(transport http.RoundTripper) *transportWithLogger {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &transportWithLogger{Transport: transport}
}

func NewHTTPClientWithLogger(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransportWithLogger(http.DefaultTransport),
	}
}

func (t *transportWithLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Msg("API request:")

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Dur("latency", time.Since(start)).
			Msg("API request failed:")
		return resp, err
	}

	var respBodyBytes []byte
	if resp.Body != nil {
		respBodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewBuffer(respBodyBytes))
	}

	event := log.Info()
	switch {
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		event = log.Warn()
	case resp.StatusCode >= http.StatusInternalServerError:
		event = log.Error()
	}

	event = event.Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest && len(respBodyBytes) > 0 {
		if json.Valid(respBodyBytes) {
			event = event.RawJSON("body", respBodyBytes)
		} else {
			event = event.Bytes("body", respBodyBytes)
		}
	}

	event.Msg("API response:")

	return resp, nil
}

// Package httpx builds the shared HTTP client injected into the storage
// SDKs as their transport.
package httpx

import (
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
)

// NewPooledClient creates an HTTP client tuned for object transfers.
//
// The client is created once per process and shared across all storage
// operations so connections are reused between sequential transfers.
// There is no client-level timeout; per-operation deadlines come from the
// caller's context.
func NewPooledClient() *http.Client {
	tr := &http.Transport{
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   64,
		MaxConnsPerHost:       64,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,

		// Object payloads are typically already compressed products.
		DisableCompression: true,
		ForceAttemptHTTP2:  true,
	}

	_ = http2.ConfigureTransport(tr)

	// Escape hatch for endpoints with broken HTTP/2 multiplexing.
	if os.Getenv("SATSTORE_DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}

	return &http.Client{Transport: tr}
}

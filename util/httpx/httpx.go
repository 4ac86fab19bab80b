// Package httpx provides a shared outbound HTTP client with sane pooling
// limits for the external collaborators (notifier webhooks).
package httpx

import (
	"net"
	"net/http"
	"time"
)

var defaultClient = &http.Client{
	// Webhook deliveries are best-effort; fail fast instead of holding the
	// caller's goroutine.
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		MaxConnsPerHost:     50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

func Client() *http.Client { return defaultClient }

package scraper

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxRedirects bounds redirect chains followed by NewHTTPClient clients.
const MaxRedirects = 5

// ErrTooManyRedirects is returned when a feed redirects more than MaxRedirects times.
var ErrTooManyRedirects = errors.New("too many redirects")

// NewHTTPClient returns a client for feed requests. Every redirect target is
// validated like the feed URL itself.
func NewHTTPClient(timeout time.Duration, denyPrivateIPs bool) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), denyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
}

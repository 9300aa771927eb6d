package scraper

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	// ErrInvalidURL is returned for feed URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid feed url")
	// ErrPrivateIP is returned when private addresses are denied and the
	// feed host resolves to one.
	ErrPrivateIP = errors.New("feed host resolves to a private address")
)

// validateURL checks scheme and host, and with denyPrivateIPs also rejects
// hosts resolving to loopback, private or link-local addresses.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}
	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, hostname, ip.String())
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

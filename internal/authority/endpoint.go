package authority

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Well-known connection defaults: the authority listens on a fixed port and
// path reachable from headset and desktop clients alike, on the same host
// the client's own origin resolves to.
const (
	DefaultPort = 8080
	DefaultPath = "/sync"
)

// Endpoint derives the authority WebSocket URL from the client's origin.
// The wire scheme mirrors the origin scheme (wss for https origins, ws
// otherwise) and the hostname is kept as-is so no authority address needs
// hardcoding.
func Endpoint(origin string, port int, path string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("origin %q has no hostname", origin)
	}

	scheme := "ws"
	if parsed.Scheme == "https" || parsed.Scheme == "wss" {
		scheme = "wss"
	}
	if port <= 0 {
		port = DefaultPort
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(parsed.Hostname(), strconv.Itoa(port)),
		Path:   path,
	}
	return endpoint.String(), nil
}

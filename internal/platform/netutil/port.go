// Package netutil finds a free TCP port for the HTTP server.
package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// DefaultStartPort is the first port tried when none is requested.
const DefaultStartPort = 8112

// DefaultAttempts is how many consecutive ports are tried when none is requested.
const DefaultAttempts = 100

// ErrNoAvailablePort is returned when every candidate port is taken.
var ErrNoAvailablePort = errors.New("no available port")

// FindAvailablePort returns the first port in [start, start+attempts) that
// can be bound on host.
func FindAvailablePort(host string, start, attempts int) (int, error) {
	if attempts < 1 {
		return 0, fmt.Errorf("attempts must be positive, got %d", attempts)
	}
	if start < 1 || start > 65535 {
		return 0, fmt.Errorf("start port %d out of range", start)
	}

	for port := start; port < start+attempts && port <= 65535; port++ {
		if Available(host, port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w: tried %s ports %d-%d", ErrNoAvailablePort, host, start, min(start+attempts-1, 65535))
}

// Available reports whether host:port can be bound right now.
func Available(host string, port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// ResolvePort applies the launcher policy: an explicit port is tried alone,
// port 0 scans DefaultAttempts ports from DefaultStartPort.
func ResolvePort(host string, port int) (int, error) {
	if port > 0 {
		return FindAvailablePort(host, port, 1)
	}
	return FindAvailablePort(host, DefaultStartPort, DefaultAttempts)
}

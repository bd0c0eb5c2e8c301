// Package netutil holds small TCP helpers for picking listen addresses.
package netutil

import (
	"fmt"
	"net"
)

// SelectBindAddr returns host:port when the port is free. With autoFallback
// it probes the following ports (up to tries) and returns the first free
// one, so a stale agent instance does not block a restart.
func SelectBindAddr(host string, port, tries int, autoFallback bool) (string, error) {
	if tries < 1 {
		tries = 1
	}

	for i := 0; i < tries; i++ {
		addr := fmt.Sprintf("%s:%d", host, port+i)
		ok, err := IsAddrAvailable(addr)
		if err != nil {
			return "", err
		}
		if ok {
			return addr, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("bind address in use: %s", addr)
		}
	}

	return "", fmt.Errorf("no free port in %s:%d-%d", host, port, port+tries-1)
}

// IsAddrAvailable returns true when an address can be listened on.
func IsAddrAvailable(addr string) (bool, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false, nil
	}
	if closeErr := ln.Close(); closeErr != nil {
		return false, closeErr
	}
	return true, nil
}

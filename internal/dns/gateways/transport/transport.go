// Package transport moves DNS messages between the network and the resolver.
// It handles the conversion between wire format and domain objects, so the
// service layer works purely with domain types.
package transport

import (
	"context"

	"github.com/haukened/ktdns/internal/dns/services/resolver"
)

// ServerTransport defines the interface for DNS server transport implementations.
type ServerTransport interface {
	// Start binds the listener and begins handing queries to handler.
	// It returns once the socket is bound; serving continues in the background
	// until Stop is called or ctx is cancelled.
	Start(ctx context.Context, handler resolver.DNSResponder) error

	// Stop closes the listener and waits for in-flight queries to finish.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// maxUDPMessageSize is the classic DNS-over-UDP payload limit. Without EDNS0
// no client sends more.
const maxUDPMessageSize = 512

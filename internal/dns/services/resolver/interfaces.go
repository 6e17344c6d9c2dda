package resolver

import (
	"context"
	"net"

	"github.com/haukened/ktdns/internal/dns/domain"
)

// ZoneStore looks up a zone by its exact origin name. Implementations return
// an error wrapping domain.ErrZoneNotFound on a miss.
type ZoneStore interface {
	Lookup(name string) (domain.Zone, error)
}

// DNSResponder is implemented by the service layer and invoked by a transport
// once per decoded query.
type DNSResponder interface {
	// HandleQuery processes a DNS query and returns a DNS response.
	// The transport handles all network protocol details - the handler only sees domain objects.
	HandleQuery(ctx context.Context, query domain.Query, clientAddr net.Addr) (domain.Response, error)
}

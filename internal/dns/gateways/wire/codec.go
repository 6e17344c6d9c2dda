package wire

import (
	"github.com/haukened/ktdns/internal/dns/domain"
)

// DNSCodec converts between raw datagrams and domain objects on the
// authoritative path. Implementations are pure and safe for concurrent use.
type DNSCodec interface {
	// DecodeQuery parses the header and single question of a query datagram.
	// Any buffer that cannot be parsed in bounds yields domain.ErrMalformedQuery.
	DecodeQuery(data []byte) (domain.Query, error)

	// EncodeResponse serializes a full answer: header, echoed question, answers.
	EncodeResponse(resp domain.Response) ([]byte, error)

	// EncodeErrorResponse builds a header-only reply to a query that could not be
	// decoded, echoing its ID and opcode when at least a header was received.
	EncodeErrorResponse(data []byte, rcode domain.RCode) ([]byte, error)
}

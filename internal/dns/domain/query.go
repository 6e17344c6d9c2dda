package domain

import (
	"fmt"
	"strings"

	"github.com/haukened/ktdns/internal/dns/common/utils"
)

// MaxLabelLength is the largest label the wire format can carry: the length
// prefix is a single byte. RFC 1035 restricts real labels to 63 octets, but the
// codec accepts anything a length byte can describe.
const MaxLabelLength = 255

// Query represents the single question of an incoming DNS message together
// with the header fields needed to build the reply.
type Query struct {
	ID     uint16   // transaction id, echoed verbatim
	Flags  uint16   // header flags as received; only the opcode is consulted
	Labels []string // question name, one entry per label
	Type   RRType
	Class  RRClass
}

// NewQuery constructs a standard Query for a dotted name and validates it.
func NewQuery(id uint16, name string, rrtype RRType, class RRClass) (Query, error) {
	q := Query{
		ID:     id,
		Labels: SplitName(name),
		Type:   rrtype,
		Class:  class,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// SplitName breaks a dotted name into labels. The root name ("" or ".") has no labels.
func SplitName(name string) []string {
	name = utils.CanonicalDNSName(name)
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

// Validate checks that every label can be represented on the wire.
func (q Query) Validate() error {
	for i, label := range q.Labels {
		if len(label) == 0 {
			return fmt.Errorf("label %d is empty", i)
		}
		if len(label) > MaxLabelLength {
			return fmt.Errorf("label %d too long: %d bytes", i, len(label))
		}
		if strings.IndexByte(label, '.') >= 0 {
			return fmt.Errorf("label %d contains a dot", i)
		}
	}
	return nil
}

// Name returns the question name as a dot-joined string without a trailing dot.
func (q Query) Name() string {
	return strings.Join(q.Labels, ".")
}

// Opcode returns the 4-bit OPCODE field from the query flags.
func (q Query) Opcode() uint8 {
	return uint8(q.Flags>>11) & 0x0F
}

// CheckSupported returns ErrUnsupportedQuery when the question asks for a type
// or class other than A/IN.
func (q Query) CheckSupported() error {
	if !q.Type.IsSupported() {
		return fmt.Errorf("%w: type %s", ErrUnsupportedQuery, q.Type)
	}
	if !q.Class.IsSupported() {
		return fmt.Errorf("%w: class %s", ErrUnsupportedQuery, q.Class)
	}
	return nil
}

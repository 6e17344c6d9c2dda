package domain

import (
	"fmt"
	"slices"

	"github.com/haukened/ktdns/internal/dns/common/utils"
)

// Zone is the set of records served for exactly one origin name.
// A Zone is immutable once constructed; accessors hand out copies.
type Zone struct {
	origin  string
	records map[RRType][]Record
}

// NewZone groups records by type under the canonical form of origin.
// Record order within a type is preserved.
func NewZone(origin string, records []Record) (Zone, error) {
	origin = utils.CanonicalDNSName(origin)
	if origin == "" {
		return Zone{}, fmt.Errorf("zone origin must not be empty")
	}
	byType := make(map[RRType][]Record)
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return Zone{}, fmt.Errorf("zone %s record %d: %w", origin, i, err)
		}
		byType[r.Type] = append(byType[r.Type], r)
	}
	return Zone{origin: origin, records: byType}, nil
}

// Origin returns the canonical origin name the zone is keyed by.
func (z Zone) Origin() string {
	return z.origin
}

// Records returns a copy of the records of the given type, in load order.
func (z Zone) Records(t RRType) []Record {
	return slices.Clone(z.records[t])
}

// Count returns the number of records across all types.
func (z Zone) Count() int {
	n := 0
	for _, rs := range z.records {
		n += len(rs)
	}
	return n
}

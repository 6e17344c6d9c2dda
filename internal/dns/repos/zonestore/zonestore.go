// Package zonestore holds the zones served by the responder. A Store is built
// once from loaded zones and never mutated; Live lets the daemon replace the
// whole Store atomically when zones are reloaded.
package zonestore

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/haukened/ktdns/internal/dns/common/utils"
	"github.com/haukened/ktdns/internal/dns/domain"
	"github.com/haukened/ktdns/internal/dns/services/resolver"
)

// Store is an immutable mapping from canonical origin name to Zone.
// It is safe for concurrent reads without locking.
type Store struct {
	zones map[string]domain.Zone
	//    origin → zone
}

// New builds a Store from zones. Two zones with the same origin are an error,
// so a Store never silently shadows data.
func New(zones []domain.Zone) (*Store, error) {
	m := make(map[string]domain.Zone, len(zones))
	for _, z := range zones {
		if _, dup := m[z.Origin()]; dup {
			return nil, fmt.Errorf("%w: duplicate origin %s", domain.ErrZoneLoad, z.Origin())
		}
		m[z.Origin()] = z
	}
	return &Store{zones: m}, nil
}

// Lookup returns the zone whose origin exactly matches name, or
// domain.ErrZoneNotFound. Both sides are canonicalized first, so matching
// ignores ASCII case and a trailing dot (RFC 4343). No suffix or wildcard
// matching is done.
func (s *Store) Lookup(name string) (domain.Zone, error) {
	z, found := s.zones[utils.CanonicalDNSName(name)]
	if !found {
		return domain.Zone{}, fmt.Errorf("%w: %q", domain.ErrZoneNotFound, name)
	}
	return z, nil
}

// Zones returns the sorted list of origins in the store.
func (s *Store) Zones() []string {
	zones := make([]string, 0, len(s.zones))
	for origin := range s.zones {
		zones = append(zones, origin)
	}
	sort.Strings(zones)
	return zones
}

// Count returns the total number of records across all zones
func (s *Store) Count() int {
	count := 0
	for _, z := range s.zones {
		count += z.Count()
	}
	return count
}

// Live is a swappable handle to the current Store. Readers always see one
// complete Store, never a mix of old and new zones.
type Live struct {
	current atomic.Pointer[Store]
}

// NewLive returns a Live handle serving initial.
func NewLive(initial *Store) *Live {
	l := &Live{}
	l.current.Store(initial)
	return l
}

// Load returns the Store currently being served.
func (l *Live) Load() *Store {
	return l.current.Load()
}

// Swap installs next and returns the Store it replaced.
func (l *Live) Swap(next *Store) *Store {
	return l.current.Swap(next)
}

// Lookup resolves name against the current Store.
func (l *Live) Lookup(name string) (domain.Zone, error) {
	return l.Load().Lookup(name)
}

// Ensure Store and Live implement resolver.ZoneStore at compile time
var (
	_ resolver.ZoneStore = (*Store)(nil)
	_ resolver.ZoneStore = (*Live)(nil)
)

package domain

import "fmt"

// Record is one resource entry of a zone. The owner name is the zone origin,
// so it is not stored here.
type Record struct {
	Type  RRType
	TTL   uint32
	Value string // presentation form, e.g. "93.184.216.34" for A
}

// NewRecord constructs a Record and validates its fields.
func NewRecord(rrtype RRType, ttl uint32, value string) (Record, error) {
	r := Record{
		Type:  rrtype,
		TTL:   ttl,
		Value: value,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks whether the Record fields are valid.
func (r Record) Validate() error {
	if !r.Type.IsSupported() {
		return fmt.Errorf("unsupported record type: %s", r.Type)
	}
	if r.Value == "" {
		return fmt.Errorf("record value must not be empty")
	}
	return nil
}

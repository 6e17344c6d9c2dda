package domain

import "errors"

// Sentinel errors shared by the codec, the zone store and the resolver.
// Wrap them with fmt.Errorf("...: %w", err) to add context; callers match with errors.Is.
var (
	// ErrMalformedQuery means the query buffer could not be decoded without
	// reading past its end (short header, overlong label, missing terminator).
	ErrMalformedQuery = errors.New("malformed query")

	// ErrUnsupportedQuery means the question asks for a type or class the
	// responder does not serve. It is answered with zero records, never dropped.
	ErrUnsupportedQuery = errors.New("unsupported query")

	// ErrZoneNotFound means no zone has the queried name as its origin.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrZoneLoad means a zone source was unreadable or malformed.
	ErrZoneLoad = errors.New("zone load failed")

	// ErrEncode means a response could not be serialized.
	ErrEncode = errors.New("response encoding failed")
)

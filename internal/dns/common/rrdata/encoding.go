// Package rrdata converts record values from their zone-file text form into
// the RDATA bytes carried in an answer.
package rrdata

import (
	"fmt"

	"github.com/haukened/ktdns/internal/dns/domain"
)

// Encode encodes a record value based on its type, to its binary representation.
func Encode(rrType domain.RRType, data string) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return encodeAData(data)
	default:
		return encoderNotImplemented(rrType)
	}
}

// encoderNotImplemented returns an error indicating that the specified DNS record type encoding is not implemented.
func encoderNotImplemented(t domain.RRType) ([]byte, error) {
	return nil, fmt.Errorf("%s record encoding not implemented", t)
}

package rrdata

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeAData encodes a dotted-quad IPv4 string into its four RDATA octets.
// Each part must be a decimal number in 0..255; nothing is truncated.
func encodeAData(data string) ([]byte, error) {
	// data = "192.168.0.1"
	parts := strings.Split(data, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid A record IP: %s", data)
	}
	out := make([]byte, 4)
	for i, part := range parts {
		octet, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid A record octet %q in %s", part, data)
		}
		out[i] = byte(octet)
	}
	return out, nil
}

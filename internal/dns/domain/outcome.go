package domain

import "fmt"

// Outcome classifies how a query was answered, independent of wire encoding.
type Outcome uint8

const (
	// OutcomeSuccess means one or more answer records were found.
	OutcomeSuccess Outcome = iota
	// OutcomeNoData means the zone exists but holds nothing for the type/class asked.
	OutcomeNoData
	// OutcomeNameError means no zone matches the queried name.
	OutcomeNameError
	// OutcomeFormatError means the query could not be decoded.
	OutcomeFormatError
)

// String returns the textual representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoData:
		return "no-data"
	case OutcomeNameError:
		return "name-error"
	case OutcomeFormatError:
		return "format-error"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

// RCodePolicy maps each Outcome to the RCODE placed in the response header.
type RCodePolicy map[Outcome]RCode

// DefaultRCodePolicy answers every decodable query with NOERROR, so a zone miss
// looks like an empty authoritative answer.
func DefaultRCodePolicy() RCodePolicy {
	return RCodePolicy{
		OutcomeSuccess:     RCodeNoError,
		OutcomeNoData:      RCodeNoError,
		OutcomeNameError:   RCodeNoError,
		OutcomeFormatError: RCodeFormErr,
	}
}

// StrictRCodePolicy reports a zone miss as NXDOMAIN.
func StrictRCodePolicy() RCodePolicy {
	p := DefaultRCodePolicy()
	p[OutcomeNameError] = RCodeNXDomain
	return p
}

// RCode returns the response code for o. Outcomes missing from the table map
// to SERVFAIL.
func (p RCodePolicy) RCode(o Outcome) RCode {
	if rc, ok := p[o]; ok {
		return rc
	}
	return RCodeServFail
}

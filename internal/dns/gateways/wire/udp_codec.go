// Package wire provides encoding and decoding of DNS messages for UDP transport.
// It handles the DNS wire format as specified in RFC 1035 §4, restricted to a
// single question of type A and class IN.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/haukened/ktdns/internal/dns/common/rrdata"
	"github.com/haukened/ktdns/internal/dns/domain"
)

const (
	// headerLength is the fixed size of the DNS message header.
	headerLength = 12

	// questionOffset is where the single question name starts. Every answer
	// owner name points here, which is only correct while a message carries
	// exactly one question.
	questionOffset = headerLength

	pointerMask = 0xC000 // top two bits mark a compression pointer

	flagQR      = 1 << 15 // response
	flagAA      = 1 << 10 // authoritative answer
	opcodeShift = 11
)

// udpCodec implements the DNSCodec interface for standard DNS over UDP messages.
type udpCodec struct{}

// NewUDPCodec creates and returns a new instance of udpCodec.
func NewUDPCodec() *udpCodec {
	return &udpCodec{}
}

// packFlags builds the response flags bit by bit rather than copying them:
// QR=1, OPCODE echoed, AA=1, TC=RD=RA=0, Z=0, RCODE from the caller.
func packFlags(opcode uint8, rcode domain.RCode) uint16 {
	return flagQR | uint16(opcode&0x0F)<<opcodeShift | flagAA | uint16(rcode&0x0F)
}

// writeHeader writes the 12-byte header.
func writeHeader(buf *bytes.Buffer, id, flags, qdCount, anCount uint16) {
	_ = binary.Write(buf, binary.BigEndian, id)
	_ = binary.Write(buf, binary.BigEndian, flags)
	_ = binary.Write(buf, binary.BigEndian, qdCount)
	_ = binary.Write(buf, binary.BigEndian, anCount)
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // NSCOUNT
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // ARCOUNT
}

// encodeLabels writes a name as length-prefixed labels followed by the zero terminator.
func encodeLabels(buf *bytes.Buffer, labels []string) error {
	for _, label := range labels {
		if len(label) == 0 {
			return fmt.Errorf("empty label in name")
		}
		if len(label) > domain.MaxLabelLength {
			return fmt.Errorf("label too long: %d bytes", len(label))
		}
		if strings.IndexByte(label, '.') >= 0 {
			return fmt.Errorf("label %q contains a dot", label)
		}
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0) // End of name
	return nil
}

// decodeLabels reads length-prefixed labels starting at offset until the zero
// terminator, returning the labels and the offset just past the terminator.
// Every length byte from 1 to 255 is taken as a raw label length. A label
// holding a '.' byte is rejected, since the joined name would be ambiguous.
func decodeLabels(data []byte, offset int) ([]string, int, error) {
	var labels []string
	for {
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("%w: name not terminated", domain.ErrMalformedQuery)
		}
		length := int(data[offset])
		offset++
		if length == 0 {
			return labels, offset, nil
		}
		if offset+length > len(data) {
			return nil, 0, fmt.Errorf("%w: label length %d exceeds remaining %d bytes",
				domain.ErrMalformedQuery, length, len(data)-offset)
		}
		label := data[offset : offset+length]
		if bytes.IndexByte(label, '.') >= 0 {
			return nil, 0, fmt.Errorf("%w: label %q contains a dot", domain.ErrMalformedQuery, label)
		}
		labels = append(labels, string(label))
		offset += length
	}
}

// EncodeQuery serializes a Query into a standard query message. The responder
// never sends queries; this exists for clients and tests.
func (c *udpCodec) EncodeQuery(query domain.Query) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, query.ID, query.Flags, 1, 0)
	if err := encodeLabels(&buf, query.Labels); err != nil {
		return nil, err
	}
	_ = binary.Write(&buf, binary.BigEndian, uint16(query.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(query.Class))

	return buf.Bytes(), nil
}

// DecodeQuery parses a DNS query message from data.
func (c *udpCodec) DecodeQuery(data []byte) (domain.Query, error) {
	if len(data) < headerLength {
		return domain.Query{}, fmt.Errorf("%w: query too short (%d bytes)", domain.ErrMalformedQuery, len(data))
	}
	id := binary.BigEndian.Uint16(data[0:2])
	flags := binary.BigEndian.Uint16(data[2:4])
	qdCount := binary.BigEndian.Uint16(data[4:6])
	if qdCount != 1 {
		return domain.Query{}, fmt.Errorf("%w: expected exactly one question, got %d", domain.ErrMalformedQuery, qdCount)
	}

	labels, offset, err := decodeLabels(data, questionOffset)
	if err != nil {
		return domain.Query{}, err
	}

	if offset+2 > len(data) {
		return domain.Query{}, fmt.Errorf("%w: truncated question, missing QTYPE", domain.ErrMalformedQuery)
	}
	qtype := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2

	// QCLASS is optional here: a question without one is treated as IN.
	qclass := uint16(domain.RRClassIN)
	if offset+2 <= len(data) {
		qclass = binary.BigEndian.Uint16(data[offset : offset+2])
	}

	return domain.Query{
		ID:     id,
		Flags:  flags,
		Labels: labels,
		Type:   domain.RRType(qtype),
		Class:  domain.RRClass(qclass),
	}, nil
}

// EncodeResponse serializes a Response into a binary format suitable for sending via UDP.
func (c *udpCodec) EncodeResponse(resp domain.Response) ([]byte, error) {
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncode, err)
	}

	var buf bytes.Buffer

	//gosec:disable G115 -- Validate caps the answer count at 65535.
	writeHeader(&buf, resp.ID, packFlags(resp.Opcode, resp.RCode), 1, uint16(len(resp.Answers)))

	// Question, echoed with the type and class that were asked.
	if err := encodeLabels(&buf, resp.Question.Labels); err != nil {
		return nil, fmt.Errorf("%w: question: %v", domain.ErrEncode, err)
	}
	_ = binary.Write(&buf, binary.BigEndian, uint16(resp.Question.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(resp.Question.Class))

	// Answers
	for i, rr := range resp.Answers {
		if err := writeAnswer(&buf, questionOffset, rr); err != nil {
			return nil, fmt.Errorf("%w: answer %d: %v", domain.ErrEncode, i, err)
		}
	}

	return buf.Bytes(), nil
}

// writeAnswer appends one resource record whose owner is the name at ownerOffset.
func writeAnswer(buf *bytes.Buffer, ownerOffset int, rr domain.Record) error {
	rdata, err := rrdata.Encode(rr.Type, rr.Value)
	if err != nil {
		return err
	}
	if want := rr.Type.RDataLength(); want != 0 && len(rdata) != int(want) {
		return fmt.Errorf("%s rdata is %d bytes, want %d", rr.Type, len(rdata), want)
	}

	// Format: 0b11xxxxxx xxxxxxxx (pointer to offset in message)
	//gosec:disable G115 -- ownerOffset is a small constant within the 14-bit pointer range.
	_ = binary.Write(buf, binary.BigEndian, uint16(pointerMask|ownerOffset))
	_ = binary.Write(buf, binary.BigEndian, uint16(rr.Type))
	_ = binary.Write(buf, binary.BigEndian, uint16(domain.RRClassIN))
	_ = binary.Write(buf, binary.BigEndian, rr.TTL)
	//gosec:disable G115 -- RDATA length was checked against the fixed size for the type.
	_ = binary.Write(buf, binary.BigEndian, uint16(len(rdata)))
	buf.Write(rdata)
	return nil
}

// EncodeErrorResponse builds a header-only response (QDCOUNT=0, ANCOUNT=0)
// carrying rcode, for queries whose question could not be decoded.
func (c *udpCodec) EncodeErrorResponse(data []byte, rcode domain.RCode) ([]byte, error) {
	if len(data) < headerLength {
		return nil, fmt.Errorf("%w: no header to answer", domain.ErrMalformedQuery)
	}
	id := binary.BigEndian.Uint16(data[0:2])
	flags := binary.BigEndian.Uint16(data[2:4])
	opcode := uint8(flags>>opcodeShift) & 0x0F

	var buf bytes.Buffer
	writeHeader(&buf, id, packFlags(opcode, rcode), 0, 0)
	return buf.Bytes(), nil
}

var _ DNSCodec = &udpCodec{}

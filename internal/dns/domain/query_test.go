package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLabels []string
		wantErr    bool
	}{
		{name: "simple", input: "example.com", wantLabels: []string{"example", "com"}},
		{name: "trailing dot", input: "example.com.", wantLabels: []string{"example", "com"}},
		{name: "mixed case", input: "WWW.Example.COM", wantLabels: []string{"www", "example", "com"}},
		{name: "root", input: ".", wantLabels: nil},
		{name: "empty label", input: "a..b", wantErr: true},
		{name: "label too long", input: strings.Repeat("x", 256) + ".com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuery(7, tt.input, RRTypeA, RRClassIN)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint16(7), q.ID)
			assert.Equal(t, tt.wantLabels, q.Labels)
		})
	}
}

func TestQuery_Validate(t *testing.T) {
	assert.NoError(t, Query{Labels: []string{"www", "example", "com"}}.Validate())
	assert.NoError(t, Query{}.Validate())
	assert.ErrorContains(t, Query{Labels: []string{"a", ""}}.Validate(), "empty")
	assert.ErrorContains(t, Query{Labels: []string{strings.Repeat("a", 256)}}.Validate(), "too long")
	// "example.com" as one label must not alias the two-label name
	assert.ErrorContains(t, Query{Labels: []string{"example.com"}}.Validate(), "contains a dot")
}

func TestQuery_Name(t *testing.T) {
	q := Query{Labels: []string{"example", "com"}}
	assert.Equal(t, "example.com", q.Name())
	assert.Equal(t, "", Query{}.Name())
}

func TestQuery_Opcode(t *testing.T) {
	for op := uint16(0); op < 16; op++ {
		q := Query{Flags: op<<11 | 0x0100}
		assert.Equal(t, uint8(op), q.Opcode(), "opcode %d", op)
	}
	// QR and RD bits must not leak into the opcode
	assert.Equal(t, uint8(0), Query{Flags: 0x8100}.Opcode())
}

func TestQuery_CheckSupported(t *testing.T) {
	cases := []struct {
		qtype   RRType
		qclass  RRClass
		wantErr bool
	}{
		{RRTypeA, RRClassIN, false},
		{RRTypeAAAA, RRClassIN, true},
		{RRTypeA, RRClassCH, true},
		{RRTypeANY, RRClassANY, true},
	}
	for _, tc := range cases {
		err := Query{Type: tc.qtype, Class: tc.qclass}.CheckSupported()
		if tc.wantErr {
			assert.True(t, errors.Is(err, ErrUnsupportedQuery), "%s/%s", tc.qtype, tc.qclass)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestRRType_String(t *testing.T) {
	assert.Equal(t, "A", RRTypeA.String())
	assert.Equal(t, "AAAA", RRTypeAAAA.String())
	assert.Equal(t, "UNKNOWN(99)", RRType(99).String())
	assert.Equal(t, uint16(4), RRTypeA.RDataLength())
	assert.Equal(t, uint16(0), RRTypeMX.RDataLength())
}

func TestRRClass_String(t *testing.T) {
	assert.Equal(t, "IN", RRClassIN.String())
	assert.Equal(t, "UNKNOWN", RRClass(42).String())
	assert.True(t, RRClassIN.IsSupported())
	assert.False(t, RRClassCH.IsSupported())
}

package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

// RawText is a form field exactly as the user typed it.
// JSON null, a string or a bare number are all accepted; empty text means
// the field is absent.
type RawText string

// UnmarshalJSON accepts null, "text" or 123
func (r *RawText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawText(s)
		return nil
	}

	// Booleans, objects and arrays are not numbers; they read as absent.
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*r = ""
		return nil
	}
	*r = RawText(n.String())
	return nil
}

// MarshalJSON writes empty text as null
func (r RawText) MarshalJSON() ([]byte, error) {
	if r.IsBlank() {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// IsBlank reports whether the field was left empty
func (r RawText) IsBlank() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Number parses the field as a plain number
func (r RawText) Number() oddsmath.Optional {
	return oddsmath.FromOK(oddsmath.ParseNumber(string(r)))
}

// American parses the field as an American price
func (r RawText) American() oddsmath.Optional {
	return oddsmath.FromOK(oddsmath.ParseAmerican(string(r)))
}

// AmericanInt parses the field as an American price truncated to an integer
func (r RawText) AmericanInt() oddsmath.OptionalInt {
	return oddsmath.FromOKInt(oddsmath.ParseAmericanInt(string(r)))
}

// Number is a numeric setting. It decodes from a JSON number or numeric
// string; null, empty or unparseable input leaves the current value alone so
// defaults survive.
type Number float64

// UnmarshalJSON keeps the existing value for anything that is not a number
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := oddsmath.ParseNumber(s); ok {
			*n = Number(v)
		}
		return nil
	}

	if v, ok := oddsmath.ParseNumber(string(data)); ok {
		*n = Number(v)
	}
	return nil
}

// Float returns the setting as a float64
func (n Number) Float() float64 {
	return float64(n)
}

package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ID is an identifier which the backend sends either as a JSON string or as
// a JSON number. It is always held, and marshalled, as a string.
type ID string

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Stringify returns the indented JSON representation of v, or the error
// text if v cannot be marshalled.
func Stringify[T any](v T) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// Uint returns the identifier as an unsigned integer, or zero if it is not
// numeric.
func (id ID) Uint() uint64 {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (id ID) String() string {
	return string(id)
}

///////////////////////////////////////////////////////////////////////////////
// JSON

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = ID(n.String())
		return nil
	}
}

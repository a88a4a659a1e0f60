package llm

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value holds one JSON value exactly as the model wrote it: a number stays a
// number with its original digits, a string stays a string, and null, bools,
// arrays and objects pass through unchanged. The zero Value encodes as null.
type Value string

// NumberValue is the JSON literal for n.
func NumberValue(n int) Value { return Value(strconv.Itoa(n)) }

// StringValue is s encoded as a JSON string.
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value(b)
}

// Text returns the contents of a JSON string, or the raw literal for any other
// kind of value.
func (v Value) Text() string {
	var s string
	if len(v) > 0 && v[0] == '"' && json.Unmarshal([]byte(v), &s) == nil {
		return s
	}
	return string(v)
}

func (v Value) String() string { return string(v) }

func (v Value) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	return []byte(v), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*v = Value(buf.String())
	return nil
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CTCKind tags which side of the union a CTCValue holds.
type CTCKind uint8

const (
	CTCNumber CTCKind = iota + 1
	CTCText
)

// CTCValue is a single compensation component: either a number or the
// free text a submitter typed ("12 LPA", "negotiable").
type CTCValue struct {
	kind CTCKind
	num  float64
	text string
}

// NumberValue wraps a numeric component.
func NumberValue(f float64) CTCValue {
	return CTCValue{kind: CTCNumber, num: f}
}

// TextValue wraps a textual component.
func TextValue(s string) CTCValue {
	return CTCValue{kind: CTCText, text: s}
}

// Kind returns the union tag.
func (v CTCValue) Kind() CTCKind { return v.kind }

// IsNumber reports whether v holds a number.
func (v CTCValue) IsNumber() bool { return v.kind == CTCNumber }

// Number returns the numeric side, or 0 for text values.
func (v CTCValue) Number() float64 { return v.num }

// Text returns the textual side, or "" for numbers.
func (v CTCValue) Text() string { return v.text }

// String renders the value the way it is displayed to users.
func (v CTCValue) String() string {
	if v.kind == CTCNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v CTCValue) MarshalJSON() ([]byte, error) {
	if v.kind == CTCNumber {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("0"), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON number or string. Any other JSON value is
// kept as text so it is preserved and contributes nothing to totals.
func (v *CTCValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty ctc value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*v = TextValue(string(data))
			return nil
		}
		*v = NumberValue(f)
	default:
		*v = TextValue(string(data))
	}
	return nil
}

// CTC is an insertion-ordered mapping from component name to value.
// The zero value is an empty map ready to use.
type CTC struct {
	keys   []string
	values map[string]CTCValue
}

// NewCTC builds a CTC from alternating key/value pairs, keeping their order.
func NewCTC(pairs ...any) CTC {
	var c CTC
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		switch val := pairs[i+1].(type) {
		case CTCValue:
			c.Set(key, val)
		case float64:
			c.Set(key, NumberValue(val))
		case int:
			c.Set(key, NumberValue(float64(val)))
		case string:
			c.Set(key, TextValue(val))
		}
	}
	return c
}

// Set inserts or replaces key. New keys go to the end.
func (c *CTC) Set(key string, v CTCValue) {
	if c.values == nil {
		c.values = make(map[string]CTCValue)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// Get returns the value stored under key.
func (c CTC) Get(key string) (CTCValue, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Delete removes key if present.
func (c *CTC) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the component names in insertion order.
func (c CTC) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of components.
func (c CTC) Len() int { return len(c.keys) }

// MarshalJSON writes the components as a JSON object in insertion order.
func (c CTC) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := c.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the key order of the document.
// null decodes to an empty map; null members are skipped.
func (c *CTC) UnmarshalJSON(data []byte) error {
	*c = CTC{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ctc: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ctc: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("ctc: value for %q: %w", key, err)
		}
		if string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		var v CTCValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("ctc: value for %q: %w", key, err)
		}
		c.Set(key, v)
	}

	_, err = dec.Token()
	return err
}

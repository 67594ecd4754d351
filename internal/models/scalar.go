package models

import (
	"bytes"
	"encoding/json"
)

type presence uint8

const (
	absent presence = iota
	valid
	invalid
)

var jsonNull = []byte("null")

// Num is an optional numeric field as delivered by the bot. It remembers
// whether the field was absent, a real number, or something else entirely.
// Nothing is coerced here; the formatter decides what an unusable value shows.
type Num struct {
	v   float64
	p   presence
	raw json.RawMessage
}

// NumOf returns a present, valid Num.
func NumOf(v float64) Num {
	return Num{v: v, p: valid}
}

func (n Num) Present() bool { return n.p != absent }
func (n Num) Valid() bool   { return n.p == valid }

// Float returns the value and whether it is a usable number.
func (n Num) Float() (float64, bool) {
	return n.v, n.p == valid
}

// Or returns the value, or def when the field is absent or not a number.
func (n Num) Or(def float64) float64 {
	if n.p == valid {
		return n.v
	}
	return def
}

func (n *Num) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*n = Num{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = Num{p: invalid, raw: append(json.RawMessage(nil), b...)}
		return nil
	}
	*n = Num{v: f, p: valid}
	return nil
}

func (n Num) MarshalJSON() ([]byte, error) {
	switch n.p {
	case valid:
		return json.Marshal(n.v)
	case invalid:
		return n.raw, nil
	default:
		return jsonNull, nil
	}
}

// Str is the string counterpart of Num.
type Str struct {
	s   string
	p   presence
	raw json.RawMessage
}

// StrOf returns a present, valid Str.
func StrOf(s string) Str {
	return Str{s: s, p: valid}
}

func (s Str) Present() bool { return s.p != absent }
func (s Str) Valid() bool   { return s.p == valid }

// Or returns the string, or def when it is absent, empty or not a string.
func (s Str) Or(def string) string {
	if s.p == valid && s.s != "" {
		return s.s
	}
	return def
}

func (s *Str) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*s = Str{}
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = Str{p: invalid, raw: append(json.RawMessage(nil), b...)}
		return nil
	}
	*s = Str{s: v, p: valid}
	return nil
}

func (s Str) MarshalJSON() ([]byte, error) {
	switch s.p {
	case valid:
		return json.Marshal(s.s)
	case invalid:
		return s.raw, nil
	default:
		return jsonNull, nil
	}
}

package sqlite

import (
	"bytes"
	"fmt"
	"time"
)

// ValueKind identifies the storage class of a Value.
type ValueKind int

// Storage classes supported by SQLite, plus Boolean which is stored
// as an integer 0/1 on the wire.
const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
	KindBoolean
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a kind-tagged SQLite value. The zero Value is Null.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the SQL NULL value.
func Null() Value {
	return Value{kind: KindNull}
}

// Integer returns an integer value.
func Integer(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// Real returns a floating point value.
func Real(v float64) Value {
	return Value{kind: KindReal, f: v}
}

// Text returns a text value.
func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

// Blob returns a binary value.
func Blob(v []byte) Value {
	return Value{kind: KindBlob, b: v}
}

// Boolean returns a boolean value. It is stored as integer 0 or 1.
func Boolean(v bool) Value {
	val := Value{kind: KindBoolean}
	if v {
		val.i = 1
	}
	return val
}

// ValueOf converts a Go value into a Value. It accepts nil, bool, all
// integer and float types, string, []byte, time.Time (stored as RFC 3339
// text) and Value itself.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Boolean(x), nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint:
		return Integer(int64(x)), nil
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case uint64:
		if x > 1<<63-1 {
			return Value{}, fmt.Errorf("%w: uint64 %d overflows integer value", ErrInvalidInput, x)
		}
		return Integer(int64(x)), nil
	case float32:
		return Real(float64(x)), nil
	case float64:
		return Real(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	case time.Time:
		return Text(x.UTC().Format(time.RFC3339Nano)), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidInput, v)
	}
}

// Kind returns the storage class of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the integer content. ok is false for non-integer values.
func (v Value) Int() (value int64, ok bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// Float returns the real content. Integer values convert losslessly.
func (v Value) Float() (value float64, ok bool) {
	switch v.kind {
	case KindReal:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Text returns the text content. ok is false for non-text values.
func (v Value) Text() (value string, ok bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// Bytes returns the blob content. ok is false for non-blob values.
func (v Value) Bytes() (value []byte, ok bool) {
	if v.kind != KindBlob {
		return nil, false
	}
	return v.b, true
}

// Bool returns the boolean content. Integer 0/1 values also convert.
func (v Value) Bool() (value bool, ok bool) {
	switch v.kind {
	case KindBoolean:
		return v.i != 0, true
	case KindInteger:
		if v.i == 0 || v.i == 1 {
			return v.i != 0, true
		}
		return false, false
	default:
		return false, false
	}
}

// Time parses a text value as RFC 3339. ok is false when the value is not
// text or does not parse.
func (v Value) Time() (value time.Time, ok bool) {
	if v.kind != KindText {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v.s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInteger, KindBoolean:
		return v.i == other.i
	case KindReal:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindBlob:
		return bytes.Equal(v.b, other.b)
	default:
		return false
	}
}

// String returns a display form for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindReal:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return v.s
	case KindBlob:
		return fmt.Sprintf("blob(%d bytes)", len(v.b))
	case KindBoolean:
		if v.i != 0 {
			return "true"
		}
		return "false"
	default:
		return "invalid"
	}
}

// Any returns the value as a plain Go value: nil, int64, float64,
// string, []byte or bool. Useful for JSON encoding and templating.
func (v Value) Any() any {
	if v.kind == KindBoolean {
		return v.i != 0
	}
	return v.arg()
}

// arg converts the value into a database/sql argument.
func (v Value) arg() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInteger, KindBoolean:
		return v.i
	case KindReal:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	default:
		return nil
	}
}

// valueFrom converts a driver scan result into a Value.
func valueFrom(src any) Value {
	switch x := src.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(x)
	case float64:
		return Real(x)
	case string:
		return Text(x)
	case []byte:
		// Copy: the driver may reuse the buffer between rows.
		b := make([]byte, len(x))
		copy(b, x)
		return Blob(b)
	case bool:
		return Boolean(x)
	case time.Time:
		return Text(x.UTC().Format(time.RFC3339Nano))
	default:
		return Text(fmt.Sprintf("%v", x))
	}
}

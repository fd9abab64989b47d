package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
)

// DecodeJSON parses data into a Value. Map key order and the int/float
// distinction are preserved: numbers without a fraction or exponent decode
// as Int, everything else as Float.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeNext(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty JSON input")
		}
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

func decodeNext(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.String())
		}
		return Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			list := List{}
			for dec.More() {
				elem, err := decodeNext(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				val, err := decodeNext(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// EncodeJSON renders v as compact JSON with no trailing newline. Non-ASCII
// characters are written verbatim. Absent and callable values cannot be
// encoded; the vanisher must run first.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v, modeJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJSONIndent renders v as two-space indented JSON.
func EncodeJSONIndent(v Value) ([]byte, error) {
	compact, err := EncodeJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent JSON: %w", err)
	}
	return buf.Bytes(), nil
}

type encodeMode int

const (
	// modeJSON produces strict JSON and rejects non-document kinds.
	modeJSON encodeMode = iota
	// modeDisplay is total: non-document kinds render as markers.
	modeDisplay
)

func appendValue(buf *bytes.Buffer, v Value, mode encodeMode) error {
	switch t := v.(type) {
	case nil:
		return errors.New("cannot encode nil value")
	case Null, Bool, Int:
		buf.WriteString(t.String())
	case Float:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			if mode == modeJSON {
				return fmt.Errorf("cannot encode %s as JSON", t.String())
			}
			buf.WriteString(t.String())
			break
		}
		buf.WriteString(t.String())
	case String:
		writeQuoted(buf, string(t))
	case List:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendValue(buf, elem, mode); err != nil {
				return fmt.Errorf("list index %d: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeQuoted(buf, k)
			buf.WriteByte(':')
			if err := appendValue(buf, t.items[k], mode); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case Absent:
		if mode == modeJSON {
			return errors.New("cannot encode absent value as JSON")
		}
		buf.WriteString(t.String())
	case Func:
		if mode == modeJSON {
			return fmt.Errorf("cannot encode function %s as JSON", t.Callable.Name())
		}
		buf.WriteString(t.String())
	default:
		return fmt.Errorf("cannot encode %s as JSON", v.Kind())
	}
	return nil
}

// writeQuoted writes s as a JSON string. Unlike encoding/json it leaves
// non-ASCII and HTML-significant characters unescaped.
func writeQuoted(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// displayString renders v for error messages. It never fails; values that
// have no JSON form render as markers such as <absent>.
func displayString(v Value) string {
	var buf bytes.Buffer
	if err := appendValue(&buf, v, modeDisplay); err != nil {
		return "<" + v.Kind().String() + ">"
	}
	return buf.String()
}

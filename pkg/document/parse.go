package document

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Parse decodes a single JSON document into a Value. Numbers without a
// fractional part that fit in int64 become KindInt, everything else
// KindFloat. Trailing non-whitespace input is rejected. Failures return a
// *ParseError carrying the byte offset and line of the first bad token.
func Parse(data []byte) (Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, parseError(data, dec, err)
	}

	// A document is exactly one JSON value; anything after it is an error.
	if _, err := dec.Token(); err != io.EOF {
		off := dec.InputOffset()
		return Value{}, &ParseError{
			Offset: off,
			Line:   lineAt(data, off),
			Msg:    "trailing data after top-level value",
		}
	}

	return fromDecoded(raw), nil
}

// fromDecoded converts decoder output (with UseNumber) into a Value.
func fromDecoded(raw any) Value {
	switch x := raw.(type) {
	case gojson.Number:
		return numberValue(string(x))
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = fromDecoded(e)
		}
		return Array(elems...)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			fields[k] = fromDecoded(e)
		}
		return Object(fields)
	default:
		return FromInterface(raw)
	}
}

// numberValue preserves the integer/float distinction from the JSON text.
// "1" is an integer; "1.0" and "1e3" are floats.
func numberValue(text string) Value {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i)
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// The decoder already accepted the token, so this is unreachable for
		// well-formed input; fall back to zero rather than panic.
		return Float(0)
	}
	return Float(f)
}

func parseError(data []byte, dec *gojson.Decoder, err error) *ParseError {
	off := dec.InputOffset()
	var syn *gojson.SyntaxError
	if errors.As(err, &syn) {
		off = syn.Offset
	}
	return &ParseError{
		Offset: off,
		Line:   lineAt(data, off),
		Msg:    err.Error(),
	}
}

// lineAt returns the 1-based line number containing the given byte offset.
func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte{'\n'})
}

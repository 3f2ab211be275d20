package wire

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/user/ibtws/iberrors"
)

// FieldReader pops decoded fields one at a time off a channel, the way the
// inbound parser consumes the stream produced by the byte-reader stage.
// Every accessor pops exactly one field.
type FieldReader struct {
	fields <-chan string
}

// NewFieldReader wraps a channel of decoded fields.
func NewFieldReader(fields <-chan string) *FieldReader {
	return &FieldReader{fields: fields}
}

func (r *FieldReader) pop() (string, error) {
	v, ok := <-r.fields
	if !ok {
		return "", io.EOF
	}
	return v, nil
}

// String pops one field and returns it as lowercased UTF-8 text. Lowercasing
// is applied to every inbound string field without exception.
func (r *FieldReader) String() (string, error) {
	v, err := r.pop()
	if err != nil {
		return "", err
	}
	return strings.ToLower(v), nil
}

// Int pops one field and parses it as an integer. An empty field decodes to
// 0, or to IntMax when defaultMax is set.
func (r *FieldReader) Int(defaultMax bool) (int, error) {
	v, err := r.pop()
	if err != nil {
		return 0, err
	}
	if v == "" {
		if defaultMax {
			return IntMax, nil
		}
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("wire: decode int field %q: %w", v, iberrors.ErrProtocol)
	}
	return n, nil
}

// Float pops one field and parses it as a float. An empty field decodes to
// 0, or to DoubleMax when defaultMax is set.
func (r *FieldReader) Float(defaultMax bool) (float64, error) {
	v, err := r.pop()
	if err != nil {
		return 0, err
	}
	if v == "" {
		if defaultMax {
			return DoubleMax, nil
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("wire: decode float field %q: %w", v, iberrors.ErrProtocol)
	}
	return f, nil
}

// Bool pops one field and reports whether the decoded integer is non-zero.
func (r *FieldReader) Bool() (bool, error) {
	n, err := r.Int(false)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// MessageID pops one field and parses it as a signed integer message id,
// without the lowercasing or empty-field defaulting applied to ordinary
// fields (message ids are never absent and may be negative, the shutdown
// sentinel).
func (r *FieldReader) MessageID() (int, error) {
	v, err := r.pop()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("wire: decode message id %q: %w", v, iberrors.ErrProtocol)
	}
	return n, nil
}

package encode

import "github.com/user/ibtws/wire"

// fieldBuilder accumulates NUL-terminated wire fields in the exact order a
// request requires them, grounded on the field-by-field appends in
// core/client_socket.py. Each method call appends exactly one field.
type fieldBuilder struct {
	buf []byte
}

func (b *fieldBuilder) Int(v int) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeInt(v)...)
	return b
}

func (b *fieldBuilder) Str(v string) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeString(v)...)
	return b
}

func (b *fieldBuilder) Bool(v bool) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeBool(v)...)
	return b
}

func (b *fieldBuilder) Float(v float64) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeFloat(v)...)
	return b
}

func (b *fieldBuilder) OptInt(v *int) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeOptInt(v)...)
	return b
}

func (b *fieldBuilder) OptFloat(v *float64) *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeOptFloat(v)...)
	return b
}

// Absent appends the sentinel "no value present" field (the empty string).
func (b *fieldBuilder) Absent() *fieldBuilder {
	b.buf = append(b.buf, wire.EncodeAbsent()...)
	return b
}

func (b *fieldBuilder) Bytes() []byte { return b.buf }

package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		enc  []byte
		want string
	}{
		{"string", EncodeString("hello"), "hello"},
		{"empty string", EncodeString(""), ""},
		{"true", EncodeBool(true), "1"},
		{"false", EncodeBool(false), "0"},
		{"int", EncodeInt(42), "42"},
		{"negative int", EncodeInt(-7), "-7"},
		{"float", EncodeFloat(3.5), "3.5"},
		{"absent", EncodeAbsent(), ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fields, tail := Decode(c.enc)
			if len(fields) != 1 || fields[0] != c.want {
				t.Fatalf("Decode(%q) = %v, %q; want [%q]", c.enc, fields, tail, c.want)
			}
			if len(tail) != 0 {
				t.Fatalf("tail = %q, want empty", tail)
			}
		})
	}
}

func TestDecodeTwoFields(t *testing.T) {
	buf := append(EncodeInt(5), EncodeString("abc")...)
	fields, tail := Decode(buf)
	want := []string{"5", "abc"}
	if len(fields) != len(want) || fields[0] != want[0] || fields[1] != want[1] {
		t.Fatalf("Decode = %v, want %v", fields, want)
	}
	if len(tail) != 0 {
		t.Fatalf("tail = %q, want empty", tail)
	}
}

func TestDecodeIncompleteTail(t *testing.T) {
	buf := []byte("5\x00ab")
	fields, tail := Decode(buf)
	if len(fields) != 1 || fields[0] != "5" {
		t.Fatalf("fields = %v", fields)
	}
	if !bytes.Equal(tail, []byte("ab")) {
		t.Fatalf("tail = %q, want %q", tail, "ab")
	}
}

func TestFrameBufferReassemblyAcrossArbitrarySplits(t *testing.T) {
	values := [][]byte{EncodeInt(1), EncodeString("a"), EncodeFloat(2.25), EncodeBool(true)}
	var whole []byte
	for _, v := range values {
		whole = append(whole, v...)
	}

	splits := [][]int{
		{len(whole)},
		{1, len(whole) - 1},
		{3, 5, len(whole) - 8},
		{len(whole) / 2, len(whole) - len(whole)/2},
	}
	for _, split := range splits {
		fb := &FrameBuffer{}
		var got []string
		offset := 0
		for _, n := range split {
			if offset+n > len(whole) {
				n = len(whole) - offset
			}
			got = append(got, fb.Feed(whole[offset:offset+n])...)
			offset += n
		}
		want := []string{"1", "a", "2.25", "1"}
		if len(got) != len(want) {
			t.Fatalf("split %v: got %v, want %v", split, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("split %v: field %d = %q, want %q", split, i, got[i], want[i])
			}
		}
	}
}

func TestSentinelSymmetry(t *testing.T) {
	if !bytes.Equal(EncodeInt(IntMax), EncodeAbsent()) {
		t.Fatalf("EncodeInt(IntMax) != EncodeAbsent()")
	}
	var nilInt *int
	if !bytes.Equal(EncodeOptInt(nilInt), EncodeAbsent()) {
		t.Fatalf("EncodeOptInt(nil) != EncodeAbsent()")
	}
	maxInt := IntMax
	if !bytes.Equal(EncodeOptInt(&maxInt), EncodeAbsent()) {
		t.Fatalf("EncodeOptInt(IntMax) != EncodeAbsent()")
	}
	var nilFloat *float64
	if !bytes.Equal(EncodeOptFloat(nilFloat), EncodeAbsent()) {
		t.Fatalf("EncodeOptFloat(nil) != EncodeAbsent()")
	}
}

func TestFieldReaderDefaults(t *testing.T) {
	ch := make(chan string, 4)
	ch <- ""
	ch <- ""
	ch <- "HELLO"
	ch <- "7"
	close(ch)

	r := NewFieldReader(ch)
	n, err := r.Int(true)
	if err != nil || n != IntMax {
		t.Fatalf("Int(true) = %d, %v; want IntMax, nil", n, err)
	}
	f, err := r.Float(true)
	if err != nil || f != DoubleMax {
		t.Fatalf("Float(true) = %v, %v; want DoubleMax, nil", f, err)
	}
	s, err := r.String()
	if err != nil || s != "hello" {
		t.Fatalf("String() = %q, %v; want lowercased hello", s, err)
	}
	b, err := r.Bool()
	if err != nil || !b {
		t.Fatalf("Bool() = %v, %v; want true", b, err)
	}
}

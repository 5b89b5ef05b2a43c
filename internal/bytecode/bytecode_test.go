package bytecode_test

import (
	"bytes"
	"testing"

	"ergc/internal/bytecode"
)

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := bytecode.Header{VersionCode: 3394, Timestamp: 1700000000}
	if err := bytecode.WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if buf.Len() != bytecode.HeaderSize {
		t.Fatalf("header is %d bytes, want %d", buf.Len(), bytecode.HeaderSize)
	}
	got, err := bytecode.ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Fatalf("ReadHeader = %+v, want %+v", got, h)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, bytecode.HeaderSize))
	if _, err := bytecode.ReadHeader(buf); err == nil {
		t.Fatalf("expected an error for an all-zero header")
	}
}

func roundTrip(t *testing.T, v bytecode.Value) bytecode.Value {
	t.Helper()
	var buf bytes.Buffer
	w := bytecode.NewWriter(&buf)
	if err := w.WriteValue(v); err != nil {
		t.Fatalf("WriteValue(%v): %v", v, err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r := bytecode.NewReader(&buf)
	got, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	return got
}

func TestValueRoundTrips(t *testing.T) {
	// Deliberately excludes Tuple: a Tuple's underlying type is a slice, and
	// comparing two interface values whose dynamic type is a slice panics
	// at runtime rather than reporting false, so it gets its own test below.
	cases := []bytecode.Value{
		bytecode.Int(42),
		bytecode.Int(-1),
		bytecode.Int(1 << 40),
		bytecode.Float(3.5),
		bytecode.Bool(true),
		bytecode.Bool(false),
		bytecode.None{},
		bytecode.Str{Text: "hello"},
		bytecode.Str{Text: "héllo"},
	}
	for _, want := range cases {
		got := roundTrip(t, want)
		if got != want {
			t.Fatalf("round trip = %#v, want %#v", got, want)
		}
	}
}

func TestTupleRoundTrips(t *testing.T) {
	want := bytecode.Tuple{bytecode.Int(1), bytecode.Str{Text: "x"}}
	got := roundTrip(t, want)
	gotTuple, ok := got.(bytecode.Tuple)
	if !ok || len(gotTuple) != len(want) {
		t.Fatalf("round trip = %#v, want a 2-element Tuple", got)
	}
	if gotTuple[0] != want[0] || gotTuple[1] != want[1] {
		t.Fatalf("round trip = %#v, want %#v", gotTuple, want)
	}
}

func TestInternedStringBackReference(t *testing.T) {
	var buf bytes.Buffer
	w := bytecode.NewWriter(&buf)
	s := bytecode.Str{Text: "shared", Interned: true}
	if err := w.WriteValue(s); err != nil {
		t.Fatalf("first WriteValue: %v", err)
	}
	if err := w.WriteValue(s); err != nil {
		t.Fatalf("second WriteValue: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := bytecode.NewReader(&buf)
	first, err := r.ReadValue()
	if err != nil {
		t.Fatalf("first ReadValue: %v", err)
	}
	second, err := r.ReadValue()
	if err != nil {
		t.Fatalf("second ReadValue: %v", err)
	}
	firstStr, ok := first.(bytecode.Str)
	if !ok || firstStr.Text != "shared" {
		t.Fatalf("first = %#v, want Str{shared}", first)
	}
	secondStr, ok := second.(bytecode.Str)
	if !ok || secondStr.Text != "shared" {
		t.Fatalf("second = %#v, want Str{shared} (resolved back-reference)", second)
	}
}

func TestCodeObjectRoundTrip(t *testing.T) {
	code := &bytecode.Code{
		Name:     "main",
		ArgCount: 2,
		Names:    []string{"x", "y"},
		Consts:   []bytecode.Value{bytecode.Int(1), bytecode.Str{Text: "ok"}},
	}
	var buf bytes.Buffer
	w := bytecode.NewWriter(&buf)
	if err := w.WriteValue(code); err != nil {
		t.Fatalf("WriteValue(code): %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r := bytecode.NewReader(&buf)
	got, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	gotCode, ok := got.(*bytecode.Code)
	if !ok {
		t.Fatalf("got %T, want *bytecode.Code", got)
	}
	if gotCode.Name != code.Name || gotCode.ArgCount != code.ArgCount {
		t.Fatalf("got %+v, want %+v", gotCode, code)
	}
	if len(gotCode.Names) != len(code.Names) || gotCode.Names[0] != "x" || gotCode.Names[1] != "y" {
		t.Fatalf("names = %v, want %v", gotCode.Names, code.Names)
	}
	if len(gotCode.Consts) != 2 {
		t.Fatalf("consts = %v, want 2 entries", gotCode.Consts)
	}
}

package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer marshals Values onto an underlying io.Writer following the
// prefix-byte table, tracking interned strings so a repeated Str with
// Interned set is written once and back-referenced afterward. Grounded on
// original_source's serialize.rs byte-builder functions (str_into_bytes,
// strs_into_bytes, raw_string_into_bytes), adapted from building an
// in-memory Vec<u8> to streaming writes via bufio.Writer the way the
// teacher's own binary-format code (internal/bytecode analogues in the
// broader ecosystem) streams rather than buffers whole payloads.
type Writer struct {
	w       *bufio.Writer
	interns map[string]uint32
	next    uint32
	err     error
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), interns: make(map[string]uint32)}
}

// Flush pushes any buffered bytes to the underlying writer.
func (wr *Writer) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	return wr.w.Flush()
}

func (wr *Writer) fail(err error) {
	if wr.err == nil {
		wr.err = err
	}
}

func (wr *Writer) writeByte(b byte) {
	if wr.err != nil {
		return
	}
	wr.fail(wr.w.WriteByte(b))
}

func (wr *Writer) writeU8(n uint8) {
	wr.writeByte(byte(n))
}

func (wr *Writer) writeU32(n uint32) {
	if wr.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], n)
	if _, err := wr.w.Write(buf[:]); err != nil {
		wr.fail(err)
	}
}

func (wr *Writer) writeU64(n uint64) {
	if wr.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	if _, err := wr.w.Write(buf[:]); err != nil {
		wr.fail(err)
	}
}

func (wr *Writer) writeRaw(p []byte) {
	if wr.err != nil {
		return
	}
	if _, err := wr.w.Write(p); err != nil {
		wr.fail(err)
	}
}

// WriteValue marshals v, returning the first error encountered across the
// whole Writer's lifetime (errors are sticky, matching the teacher's
// accumulate-and-continue diagnostic style carried over as accumulate-
// and-report-once for a hard I/O failure, where retrying per-call would
// leave the stream corrupt anyway).
func (wr *Writer) WriteValue(v Value) error {
	if wr.err != nil {
		return wr.err
	}
	switch val := v.(type) {
	case Int:
		wr.writeInt(int64(val))
	case Float:
		wr.writeByte(byte(PrefixBinFloat))
		wr.writeU64(math.Float64bits(float64(val)))
	case Bool:
		if val {
			wr.writeByte(byte(PrefixTrue))
		} else {
			wr.writeByte(byte(PrefixFalse))
		}
	case None:
		wr.writeByte(byte(PrefixNone))
	case Str:
		wr.writeStr(val)
	case Tuple:
		wr.writeTuple(val)
	case *Code:
		wr.writeCode(val)
	default:
		wr.fail(fmt.Errorf("bytecode: unsupported value type %T", v))
	}
	return wr.err
}

func (wr *Writer) writeInt(n int64) {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		wr.writeByte(byte(PrefixInt32))
		wr.writeU32(uint32(int32(n)))
		return
	}
	wr.writeByte(byte(PrefixInt64))
	wr.writeU64(uint64(n))
}

func (wr *Writer) writeStr(s Str) {
	if s.Interned {
		if idx, seen := wr.interns[s.Text]; seen {
			wr.writeByte(byte(PrefixRef))
			wr.writeU32(idx)
			return
		}
	}
	if isASCII(s.Text) {
		if len(s.Text) <= 0xFF {
			if s.Interned {
				wr.writeByte(byte(PrefixShortAsciiInterned))
			} else {
				wr.writeByte(byte(PrefixShortAscii))
			}
			wr.writeU8(uint8(len(s.Text)))
			wr.writeRaw([]byte(s.Text))
		} else {
			wr.writeByte(byte(PrefixStr))
			wr.writeU32(uint32(len(s.Text)))
			wr.writeRaw([]byte(s.Text))
		}
	} else {
		wr.writeByte(byte(PrefixUnicode))
		wr.writeU32(uint32(len(s.Text)))
		wr.writeRaw([]byte(s.Text))
	}
	if s.Interned {
		wr.interns[s.Text] = wr.next
		wr.next++
	}
}

func (wr *Writer) writeTuple(t Tuple) {
	if len(t) <= 0xFF {
		wr.writeByte(byte(PrefixSmallTuple))
		wr.writeU8(uint8(len(t)))
	} else {
		wr.writeByte(byte(PrefixTuple))
		wr.writeU32(uint32(len(t)))
	}
	for _, elem := range t {
		if wr.err != nil {
			return
		}
		_ = wr.WriteValue(elem)
	}
}

func (wr *Writer) writeCode(c *Code) {
	wr.writeByte(byte(PrefixCode))
	_ = wr.WriteValue(Str{Text: c.Name, Interned: true})
	wr.writeU32(c.ArgCount)
	names := make(Tuple, len(c.Names))
	for i, n := range c.Names {
		names[i] = Str{Text: n, Interned: true}
	}
	wr.writeTuple(names)
	wr.writeTuple(Tuple(c.Consts))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

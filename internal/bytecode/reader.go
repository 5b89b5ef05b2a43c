package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader unmarshals Values written by Writer, resolving PrefixRef back-
// references against the same interning order the writer assigned them.
type Reader struct {
	r       *bufio.Reader
	interns []string
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (rd *Reader) readByte() (byte, error) {
	return rd.r.ReadByte()
}

func (rd *Reader) readU8() (uint8, error) {
	b, err := rd.r.ReadByte()
	return uint8(b), err
}

func (rd *Reader) readU32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (rd *Reader) readU64() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (rd *Reader) readRaw(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadValue reads and decodes one marshalled object.
func (rd *Reader) ReadValue() (Value, error) {
	b, err := rd.readByte()
	if err != nil {
		return nil, err
	}
	switch Prefix(b) {
	case PrefixInt32:
		n, err := rd.readU32()
		if err != nil {
			return nil, err
		}
		return Int(int32(n)), nil
	case PrefixInt64:
		n, err := rd.readU64()
		if err != nil {
			return nil, err
		}
		return Int(int64(n)), nil
	case PrefixBinFloat:
		n, err := rd.readU64()
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(n)), nil
	case PrefixTrue:
		return Bool(true), nil
	case PrefixFalse:
		return Bool(false), nil
	case PrefixNone:
		return None{}, nil
	case PrefixRef:
		idx, err := rd.readU32()
		if err != nil {
			return nil, err
		}
		if int(idx) >= len(rd.interns) {
			return nil, fmt.Errorf("bytecode: back-reference %d out of range", idx)
		}
		return Str{Text: rd.interns[idx], Interned: true}, nil
	case PrefixShortAscii, PrefixShortAsciiInterned:
		n, err := rd.readU8()
		if err != nil {
			return nil, err
		}
		raw, err := rd.readRaw(int(n))
		if err != nil {
			return nil, err
		}
		interned := Prefix(b) == PrefixShortAsciiInterned
		s := Str{Text: string(raw), Interned: interned}
		if interned {
			rd.interns = append(rd.interns, s.Text)
		}
		return s, nil
	case PrefixStr, PrefixUnicode:
		n, err := rd.readU32()
		if err != nil {
			return nil, err
		}
		raw, err := rd.readRaw(int(n))
		if err != nil {
			return nil, err
		}
		return Str{Text: string(raw)}, nil
	case PrefixSmallTuple:
		n, err := rd.readU8()
		if err != nil {
			return nil, err
		}
		return rd.readTupleElems(int(n))
	case PrefixTuple:
		n, err := rd.readU32()
		if err != nil {
			return nil, err
		}
		return rd.readTupleElems(int(n))
	case PrefixCode:
		return rd.readCode()
	default:
		return nil, fmt.Errorf("bytecode: unknown prefix byte %q", b)
	}
}

func (rd *Reader) readTupleElems(n int) (Tuple, error) {
	t := make(Tuple, n)
	for i := 0; i < n; i++ {
		v, err := rd.ReadValue()
		if err != nil {
			return nil, err
		}
		t[i] = v
	}
	return t, nil
}

func (rd *Reader) readCode() (*Code, error) {
	nameVal, err := rd.ReadValue()
	if err != nil {
		return nil, err
	}
	nameStr, ok := nameVal.(Str)
	if !ok {
		return nil, fmt.Errorf("bytecode: code object name is %T, not a string", nameVal)
	}
	argCount, err := rd.readU32()
	if err != nil {
		return nil, err
	}
	namesVal, err := rd.ReadValue()
	if err != nil {
		return nil, err
	}
	namesTuple, ok := namesVal.(Tuple)
	if !ok {
		return nil, fmt.Errorf("bytecode: code object names is %T, not a tuple", namesVal)
	}
	names := make([]string, len(namesTuple))
	for i, v := range namesTuple {
		s, ok := v.(Str)
		if !ok {
			return nil, fmt.Errorf("bytecode: code object name entry %d is %T, not a string", i, v)
		}
		names[i] = s.Text
	}
	constsVal, err := rd.ReadValue()
	if err != nil {
		return nil, err
	}
	constsTuple, ok := constsVal.(Tuple)
	if !ok {
		return nil, fmt.Errorf("bytecode: code object consts is %T, not a tuple", constsVal)
	}
	return &Code{
		Name:     nameStr.Text,
		ArgCount: argCount,
		Names:    names,
		Consts:   []Value(constsTuple),
	}, nil
}

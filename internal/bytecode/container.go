// Package bytecode implements the marshalled-object container of spec.md
// §6 "Bytecode container (emitted externally)": the 16-byte CPython-.pyc
// compatible header plus one marshalled code object made of the
// prefix-byte table entries. Grounded directly on original_source's
// compiler/erg_common/serialize.rs (no teacher analogue — the teacher
// targets its own VM/LLVM backend, not a CPython-bytecode container),
// re-expressed with stdlib encoding/binary instead of serialize.rs's
// manual little-endian byte-slice building.
package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"
)

// headerMagicPrefix is the fixed high half of the magic number every
// container begins with (serialize.rs "PREFIX: u32 = 0xA0D0000", the same
// value written here with all eight hex digits: 0x0A0D0000).
const headerMagicPrefix uint32 = 0x0A0D0000

// HeaderSize is the fixed size in bytes of the container header.
const HeaderSize = 16

// Header is the 16-byte preamble spec.md §6 describes: a 4-byte magic
// number built from a target-runtime version code OR'd with
// headerMagicPrefix, 4 bytes of padding, a 4-byte little-endian unix
// timestamp (low 32 bits), and 4 more bytes of padding.
type Header struct {
	VersionCode uint16
	Timestamp   uint32
}

// MagicNumber returns the little-endian 4-byte magic number for h.
func (h Header) MagicNumber() uint32 {
	return headerMagicPrefix | uint32(h.VersionCode)
}

// WriteHeader writes the 16-byte header to w.
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.MagicNumber())
	// buf[4:8] left as padding zeros.
	binary.LittleEndian.PutUint32(buf[8:12], h.Timestamp)
	// buf[12:16] left as padding zeros.
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads and validates the 16-byte header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("bytecode: reading header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic&0xFFFF0000 != headerMagicPrefix {
		return Header{}, fmt.Errorf("bytecode: bad magic prefix %#08x", magic&0xFFFF0000)
	}
	return Header{
		VersionCode: uint16(magic & 0xFFFF),
		Timestamp:   binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

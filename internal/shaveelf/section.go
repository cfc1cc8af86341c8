package shaveelf

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Names of the vendor metadata sections.
const (
	MetadataSection    = ".neo_metadata"
	MetadataStrSection = ".neo_metadata.str"
)

// ErrMalformedBinary reports a kernel binary whose ELF structure is
// truncated, inconsistent, or missing an expected section.
var ErrMalformedBinary = errors.New("malformed kernel binary")

// ELF32 header and section-header field layout. Only the fields the section
// walk needs are named; everything else is padding as far as this package is
// concerned.
const (
	ehdrSize        = 52
	ehdrPhoffOff    = 28
	ehdrShoffOff    = 32
	ehdrShnumOff    = 48
	ehdrShstrndxOff = 50

	shdrSize      = 40
	shdrNameOff   = 0
	shdrOffsetOff = 16
	shdrSizeOff   = 20
)

type section struct {
	name   string
	offset uint32
	size   uint32
}

// File is a parsed view over a kernel binary's section table. It borrows
// the underlying byte slice and never copies section contents.
type File struct {
	data     []byte
	sections []section
}

// Parse walks the binary's section header table and resolves each section's
// name through the section-name string table.
func Parse(data []byte) (*File, error) {
	if len(data) < ehdrSize {
		return nil, errors.Wrapf(ErrMalformedBinary, "truncated ELF header: %d bytes", len(data))
	}

	phoff := binary.LittleEndian.Uint32(data[ehdrPhoffOff:])
	shoff := binary.LittleEndian.Uint32(data[ehdrShoffOff:])
	shnum := binary.LittleEndian.Uint16(data[ehdrShnumOff:])
	shstrndx := binary.LittleEndian.Uint16(data[ehdrShstrndxOff:])

	if phoff == 0 || shoff == 0 {
		return nil, errors.Wrap(ErrMalformedBinary, "missing program or section header table")
	}
	tableEnd := int64(shoff) + int64(shnum)*shdrSize
	if tableEnd > int64(len(data)) {
		return nil, errors.Wrapf(ErrMalformedBinary,
			"section header table extends past end of binary (%d > %d)", tableEnd, len(data))
	}
	if shstrndx >= shnum {
		return nil, errors.Wrapf(ErrMalformedBinary,
			"section name string table index %d out of range (%d sections)", shstrndx, shnum)
	}

	strOff, strSize, _ := readShdr(data, shoff, shstrndx)
	strtab, err := slice(data, strOff, strSize)
	if err != nil {
		return nil, errors.WithMessage(err, "section name string table")
	}

	f := &File{data: data, sections: make([]section, 0, shnum)}
	for i := uint16(0); i < shnum; i++ {
		offset, size, nameOff := readShdr(data, shoff, i)
		if _, err := slice(data, offset, size); err != nil {
			return nil, errors.WithMessagef(err, "section %d", i)
		}
		name, err := cstr(strtab, nameOff)
		if err != nil {
			return nil, errors.WithMessagef(err, "section %d name", i)
		}
		f.sections = append(f.sections, section{name: name, offset: offset, size: size})
	}
	return f, nil
}

// Section returns the byte range of the first section with the given name.
func (f *File) Section(name string) ([]byte, bool) {
	for _, s := range f.sections {
		if s.name == name {
			data, err := slice(f.data, s.offset, s.size)
			if err != nil {
				return nil, false
			}
			return data, true
		}
	}
	return nil, false
}

// readShdr reads the interesting fields of the i-th section header. The
// caller has already validated that the header lies within data.
func readShdr(data []byte, shoff uint32, i uint16) (offset, size, nameOff uint32) {
	base := int64(shoff) + int64(i)*shdrSize
	nameOff = binary.LittleEndian.Uint32(data[base+shdrNameOff:])
	offset = binary.LittleEndian.Uint32(data[base+shdrOffsetOff:])
	size = binary.LittleEndian.Uint32(data[base+shdrSizeOff:])
	return offset, size, nameOff
}

// slice bounds-checks an offset/length pair taken from the binary and
// returns the addressed range.
func slice(data []byte, offset, size uint32) ([]byte, error) {
	end := int64(offset) + int64(size)
	if end > int64(len(data)) {
		return nil, errors.Wrapf(ErrMalformedBinary,
			"range [%d:%d) extends past end of binary (%d bytes)", offset, end, len(data))
	}
	return data[offset:end], nil
}

// cstr reads the NUL-terminated string at off inside a string table.
func cstr(strtab []byte, off uint32) (string, error) {
	if int64(off) >= int64(len(strtab)) {
		return "", errors.Wrapf(ErrMalformedBinary,
			"string offset %d out of range (%d bytes)", off, len(strtab))
	}
	end := bytes.IndexByte(strtab[off:], 0)
	if end < 0 {
		return "", errors.Wrapf(ErrMalformedBinary, "unterminated string at offset %d", off)
	}
	return string(strtab[off : int(off)+end]), nil
}

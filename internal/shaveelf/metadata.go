package shaveelf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrMetadata reports a metadata section whose kernel or argument records
// cannot be decoded.
var ErrMetadata = errors.New("malformed kernel metadata")

// ArgFlags annotates a kernel argument record.
type ArgFlags uint32

// FlagGeneratedPrePost marks a buffer the kernel compiler synthesized for
// pre/post processing. Such arguments have no descriptor-level counterpart.
const FlagGeneratedPrePost ArgFlags = 1 << 0

// Argument is one decoded kernel argument record.
type Argument struct {
	Name  string
	Flags ArgFlags
}

// Metadata section record layout, little-endian. The section starts with a
// header addressing a kernel table and an argument table; names live in the
// companion string section. Every kernel's argument run carries one trailing
// sentinel record beyond its true argument list; consumers subtract it.
const (
	metadataVersion = 1

	mdHeaderSize = 16 // version, kernel count, kernel table offset, arg table offset
	mdKernelSize = 12 // name offset, first arg index, arg count
	mdArgSize    = 8  // name offset, flags
)

type mdKernel struct {
	name     string
	firstArg uint32
	argCount uint32
}

type mdArg struct {
	nameOff uint32
	flags   uint32
}

// Metadata is the query object over a binary's two metadata section byte
// ranges. Kernel records are decoded eagerly; argument names are resolved
// lazily per lookup.
type Metadata struct {
	kernels []mdKernel
	args    []mdArg
	str     []byte
}

// ParseMetadata decodes the kernel and argument tables of a .neo_metadata
// section, resolving record names through the .neo_metadata.str section.
func ParseMetadata(data, str []byte) (*Metadata, error) {
	if len(data) < mdHeaderSize {
		return nil, errors.Wrapf(ErrMetadata, "truncated metadata header: %d bytes", len(data))
	}

	version := binary.LittleEndian.Uint32(data[0:])
	kernelCount := binary.LittleEndian.Uint32(data[4:])
	kernelTableOff := binary.LittleEndian.Uint32(data[8:])
	argTableOff := binary.LittleEndian.Uint32(data[12:])

	if version != metadataVersion {
		return nil, errors.Wrapf(ErrMetadata, "unsupported metadata version %d", version)
	}

	kernelTableEnd := int64(kernelTableOff) + int64(kernelCount)*mdKernelSize
	if kernelTableEnd > int64(len(data)) {
		return nil, errors.Wrapf(ErrMetadata,
			"kernel table extends past end of metadata section (%d > %d)", kernelTableEnd, len(data))
	}
	if int64(argTableOff) > int64(len(data)) {
		return nil, errors.Wrapf(ErrMetadata,
			"argument table offset %d out of range (%d bytes)", argTableOff, len(data))
	}

	m := &Metadata{str: str}

	argCount := (len(data) - int(argTableOff)) / mdArgSize
	m.args = make([]mdArg, argCount)
	for i := range m.args {
		base := int(argTableOff) + i*mdArgSize
		m.args[i] = mdArg{
			nameOff: binary.LittleEndian.Uint32(data[base:]),
			flags:   binary.LittleEndian.Uint32(data[base+4:]),
		}
	}

	m.kernels = make([]mdKernel, kernelCount)
	for i := range m.kernels {
		base := int64(kernelTableOff) + int64(i)*mdKernelSize
		nameOff := binary.LittleEndian.Uint32(data[base:])
		k := mdKernel{
			firstArg: binary.LittleEndian.Uint32(data[base+4:]),
			argCount: binary.LittleEndian.Uint32(data[base+8:]),
		}
		name, err := cstr(str, nameOff)
		if err != nil {
			return nil, errors.Wrapf(ErrMetadata, "kernel %d name: %v", i, err)
		}
		k.name = name
		if int64(k.firstArg)+int64(k.argCount) > int64(len(m.args)) {
			return nil, errors.Wrapf(ErrMetadata,
				"kernel %q declares arguments [%d:%d) but the table holds %d records",
				k.name, k.firstArg, k.firstArg+k.argCount, len(m.args))
		}
		m.kernels[i] = k
	}

	return m, nil
}

// KernelCount reports how many kernels the binary declares.
func (m *Metadata) KernelCount() int { return len(m.kernels) }

// KernelID resolves a kernel's exported name to its binary-internal id.
// It returns -1 when no kernel has that name.
func (m *Metadata) KernelID(name string) int {
	for i, k := range m.kernels {
		if k.name == name {
			return i
		}
	}
	return -1
}

// ArgumentCount reports the number of argument records the kernel declares,
// including the trailing sentinel record.
func (m *Metadata) ArgumentCount(id int) int {
	if id < 0 || id >= len(m.kernels) {
		return 0
	}
	return int(m.kernels[id].argCount)
}

// Argument decodes the i-th argument record of the given kernel.
func (m *Metadata) Argument(id, i int) (Argument, error) {
	if id < 0 || id >= len(m.kernels) {
		return Argument{}, errors.Wrapf(ErrMetadata, "kernel id %d out of range", id)
	}
	k := m.kernels[id]
	if i < 0 || i >= int(k.argCount) {
		return Argument{}, errors.Wrapf(ErrMetadata,
			"argument index %d out of range for kernel %q (%d declared)", i, k.name, k.argCount)
	}
	raw := m.args[int(k.firstArg)+i]
	name, err := cstr(m.str, raw.nameOff)
	if err != nil {
		return Argument{}, errors.Wrapf(ErrMetadata, "argument %d of kernel %q: %v", i, k.name, err)
	}
	return Argument{Name: name, Flags: ArgFlags(raw.flags)}, nil
}

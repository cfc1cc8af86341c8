// Package shaveelf reads the vendor metadata embedded in compiled SHAVE
// kernel binaries.
//
// The binaries are ELF32 files carrying two extra sections: .neo_metadata,
// a table of kernel and argument records, and .neo_metadata.str, the string
// table those records point into. The package walks the section header table
// by hand because the field layout is a fixed vendor contract; unlike the
// reference tooling it validates every offset and length taken from the
// binary before dereferencing, so a truncated or corrupt file fails with
// ErrMalformedBinary instead of an out-of-bounds read.
package shaveelf

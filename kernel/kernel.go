// Package kernel loads custom-layer kernel descriptors for the graph
// compiler.
//
// A custom layer plugs a hand-written compute kernel into the fixed operator
// library: an XML descriptor declares the kernel's argument bindings and
// work sizes, and references the kernel binary file. This package turns one
// descriptor node plus its binary into an immutable descriptor object the
// downstream code generator binds and dispatches, without the generator ever
// touching the descriptor format.
//
// Two kernel flavors exist:
//
//   - Native: a function compiled directly for the device, dispatched by
//     partitioning an axis of an operand across the SHAVE lanes. The kernel
//     computes its own work partitioning, so the descriptor only names the
//     dimension source.
//   - Compiled: a kernel ahead-of-time compiled to the target ISA. Its
//     descriptor carries symbolic global/local grid size rules, and the
//     true call-argument order is recovered from metadata embedded in the
//     binary itself, which may differ from the declaration order.
//
// Example usage:
//
//	reg, err := kernel.LoadConfig("custom_layers.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	descriptors, ok := reg.Layer("ShuffleChannels")
//	if !ok {
//	    log.Fatal("layer not bound")
//	}
//	for _, d := range descriptors {
//	    err := d.Accept(myDispatcher) // branches on Native vs Compiled
//	    ...
//	}
//
// Descriptors are constructed synchronously and are immutable afterwards;
// they may be shared read-only across any number of threads. Construction
// is atomic: on failure no partially built descriptor escapes.
package kernel

import (
	"github.com/beevik/etree"

	internalkernel "github.com/vpukit/customkernel/internal/kernel"
	"github.com/vpukit/customkernel/internal/shaveelf"
)

// KernelParam is one declared argument binding.
type KernelParam = internalkernel.KernelParam

// ParamKind identifies how a kernel argument is sourced and bound.
type ParamKind = internalkernel.ParamKind

// Kernel parameter kinds.
const (
	ParamInput        ParamKind = internalkernel.ParamInput
	ParamOutput       ParamKind = internalkernel.ParamOutput
	ParamData         ParamKind = internalkernel.ParamData
	ParamLocalData    ParamKind = internalkernel.ParamLocalData
	ParamInputBuffer  ParamKind = internalkernel.ParamInputBuffer
	ParamOutputBuffer ParamKind = internalkernel.ParamOutputBuffer
	ParamInt          ParamKind = internalkernel.ParamInt
	ParamFloat        ParamKind = internalkernel.ParamFloat
)

// DataLayout is the tensor memory layout a tensor argument expects.
type DataLayout = internalkernel.DataLayout

// Tensor layouts.
const (
	LayoutBYXF DataLayout = internalkernel.LayoutBYXF
	LayoutBFYX DataLayout = internalkernel.LayoutBFYX
	LayoutYXF  DataLayout = internalkernel.LayoutYXF
	LayoutFYX  DataLayout = internalkernel.LayoutFYX
	LayoutBF   DataLayout = internalkernel.LayoutBF
	LayoutAny  DataLayout = internalkernel.LayoutAny
	LayoutNone DataLayout = internalkernel.LayoutNone
)

// DimSource selects which operand list supplies a runtime dimension value.
type DimSource = internalkernel.DimSource

// Dimension sources.
const (
	DimInput  DimSource = internalkernel.DimInput
	DimOutput DimSource = internalkernel.DimOutput
)

// Descriptor is one custom operator's compute binding; the concrete types
// are Native and Compiled.
type Descriptor = internalkernel.Descriptor

// Native is a natively-dispatched kernel's descriptor.
type Native = internalkernel.Native

// Compiled is an ahead-of-time compiled kernel's descriptor.
type Compiled = internalkernel.Compiled

// Registry maps layer names to their kernel descriptors.
type Registry = internalkernel.Registry

// Errors reported during descriptor construction. Wrapped errors satisfy
// errors.Is against these.
var (
	ErrInvalidDescriptor  = internalkernel.ErrInvalidDescriptor
	ErrKernelFileNotFound = internalkernel.ErrKernelFileNotFound
	ErrBinaryMismatch     = internalkernel.ErrBinaryMismatch
	ErrMalformedBinary    = shaveelf.ErrMalformedBinary
	ErrMetadata           = shaveelf.ErrMetadata
)

// ParseNative builds a native kernel descriptor from its XML node. The
// descriptor's Source filenames are resolved relative to configDir.
func ParseNative(node *etree.Element, configDir string) (*Native, error) {
	return internalkernel.NewNative(node, configDir)
}

// ParseCompiled builds a compiled kernel descriptor from its XML node,
// introspecting the referenced binary's metadata sections. Source filenames
// are resolved relative to configDir.
func ParseCompiled(node *etree.Element, configDir string) (*Compiled, error) {
	return internalkernel.NewCompiled(node, configDir)
}

// LoadConfig loads a custom-layer config file binding operator names to
// kernel descriptors. See Registry.
func LoadConfig(path string) (*Registry, error) {
	return internalkernel.LoadConfig(path)
}

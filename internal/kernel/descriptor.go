// Package kernel builds immutable custom-layer kernel descriptors from XML
// descriptor nodes and their attached kernel binaries.
//
// A descriptor comes in two variants. A native kernel is a function compiled
// directly for the device; it partitions its own iteration space across the
// SHAVE lanes, so the descriptor only carries a work-group dimension source.
// A compiled kernel is ahead-of-time compiled to the target ISA and carries
// embedded argument metadata; its descriptor additionally holds the
// global/local grid size rules and the argument order recovered from the
// binary itself.
package kernel

// Visitor dispatches over the two kernel variants. A downstream consumer
// implements it to handle each flavor without inspecting a type tag.
type Visitor interface {
	VisitNative(*Native) error
	VisitCompiled(*Compiled) error
}

// Descriptor is one custom operator's compute binding. It is constructed
// once, never mutated afterwards, and safe to share across threads.
// The variant set is closed: Native and Compiled are the only
// implementations.
type Descriptor interface {
	// Accept invokes exactly one of the visitor's methods.
	Accept(Visitor) error

	// Binary is the raw kernel file contents. Callers must treat the
	// returned slice as read-only.
	Binary() []byte

	// Params returns the declared parameters in descriptor order.
	Params() []KernelParam

	// ArgumentNames is the ordered argument list the dispatcher binds
	// positionally. For native kernels it mirrors the declaration order;
	// for compiled kernels it is recovered from the binary's metadata and
	// may differ.
	ArgumentNames() []string

	// DimSource and DimIndex govern how many work items a launch spans.
	DimSource() DimSource
	DimIndex() int

	// MaxShaves bounds parallel SHAVE lane usage. 0 means unbounded.
	MaxShaves() int

	// InputDataCount is the number of parameters of the Input, InputBuffer
	// and Data kinds; leading arguments up to this count are operator
	// inputs.
	InputDataCount() int

	sealed()
}

// base carries the fields shared by both variants.
type base struct {
	binary         []byte
	params         []KernelParam
	argNames       []string
	dimSource      DimSource
	dimIndex       int
	maxShaves      int
	inputDataCount int
}

func (b *base) Binary() []byte { return b.binary }

func (b *base) Params() []KernelParam { return b.params }

func (b *base) ArgumentNames() []string { return b.argNames }

func (b *base) DimSource() DimSource { return b.dimSource }

func (b *base) DimIndex() int { return b.dimIndex }

func (b *base) MaxShaves() int { return b.maxShaves }

func (b *base) InputDataCount() int { return b.inputDataCount }

func (b *base) sealed() {}

// Native is the descriptor for a natively-dispatched kernel.
type Native struct {
	base
}

// Accept implements Descriptor.
func (k *Native) Accept(v Visitor) error { return v.VisitNative(k) }

// Compiled is the descriptor for an ahead-of-time compiled kernel.
type Compiled struct {
	base

	globalGridSizeRules []string
	localGridSizeRules  []string
	kernelID            int
}

// Accept implements Descriptor.
func (k *Compiled) Accept(v Visitor) error { return v.VisitCompiled(k) }

// GlobalGridSizeRules are the symbolic global grid extents, one per grid
// dimension.
func (k *Compiled) GlobalGridSizeRules() []string { return k.globalGridSizeRules }

// LocalGridSizeRules are the symbolic local grid extents, one per grid
// dimension.
func (k *Compiled) LocalGridSizeRules() []string { return k.localGridSizeRules }

// KernelID is the binary-internal identifier of the kernel matched by the
// descriptor's entry name.
func (k *Compiled) KernelID() int { return k.kernelID }

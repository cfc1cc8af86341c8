package kernel

//go:generate stringer -type=ParamKind -trimprefix=Param
//go:generate stringer -type=DataLayout -trimprefix=Layout
//go:generate stringer -type=DimSource -trimprefix=Dim

// ParamKind identifies how a kernel argument is sourced and bound.
type ParamKind int

const (
	ParamInput ParamKind = iota
	ParamOutput
	ParamData
	ParamLocalData
	ParamInputBuffer
	ParamOutputBuffer
	ParamInt
	ParamFloat
)

// DataLayout is the pixel/tensor memory layout a tensor argument expects.
type DataLayout int

const (
	LayoutBYXF DataLayout = iota // NHWC
	LayoutBFYX                   // NCHW
	LayoutYXF                    // HWC
	LayoutFYX                    // CHW
	LayoutBF                     // NC
	LayoutAny
	LayoutNone
)

// DimSource selects which operand list supplies a runtime dimension value.
type DimSource int

const (
	DimInput DimSource = iota
	DimOutput
)

// KernelParam is one declared argument binding from the descriptor's
// Parameters block.
type KernelParam struct {
	// Kind of the argument.
	Kind ParamKind

	// Format is the expected tensor layout. Tensor arguments default to
	// LayoutBFYX; non-tensor arguments are LayoutAny.
	Format DataLayout

	// ArgName is the identifier the IR binds this argument to.
	ArgName string

	// PortIndex indexes the operator's input/output port list.
	// -1 when the argument is not port-bound.
	PortIndex int

	// IRSource references an IR-level attribute supplying a scalar value.
	IRSource string

	// BufferSizeRule is a symbolic size expression, set for the buffer and
	// local-data kinds. It is kept opaque here and resolved by the caller
	// against actual tensor shapes.
	BufferSizeRule string

	// DimSource and DimIndex identify the operand shape and axis a runtime
	// dimension is taken from. DimIndex -1 means the whole shape.
	DimSource DimSource
	DimIndex  int
}

// newKernelParam returns a KernelParam with the sentinel defaults every
// parse path starts from.
func newKernelParam() KernelParam {
	return KernelParam{
		Format:    LayoutAny,
		PortIndex: -1,
		DimIndex:  -1,
	}
}

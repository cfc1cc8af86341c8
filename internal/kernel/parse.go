package kernel

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/vpukit/customkernel/internal/xmlnode"
)

// Token tables for the closed attribute vocabularies. Lookups normalize to
// lower case; the descriptor schema is case-insensitive for these tokens.
var (
	layoutNames = map[string]DataLayout{
		"bfyx": LayoutBFYX,
		"byxf": LayoutBYXF,
		"fyx":  LayoutFYX,
		"yxf":  LayoutYXF,
		"bf":   LayoutBF,
		"any":  LayoutAny,
	}

	tensorKinds = map[string]ParamKind{
		"input":         ParamInput,
		"output":        ParamOutput,
		"input_buffer":  ParamInputBuffer,
		"output_buffer": ParamOutputBuffer,
		"data":          ParamData,
	}

	dataKinds = map[string]ParamKind{
		"data":       ParamData,
		"local_data": ParamLocalData,
	}

	scalarKinds = map[string]ParamKind{
		"int":   ParamInt,
		"float": ParamFloat,
	}
)

// parseDimSource splits a dimension-source expression of the form
// "input" / "output" / "input,2" into its operand list and axis index.
// An omitted index means the whole shape and is reported as -1.
func parseDimSource(text string) (DimSource, int, error) {
	sourceText, idxText, hasIdx := strings.Cut(text, ",")

	var source DimSource
	switch strings.ToLower(sourceText) {
	case "input":
		source = DimInput
	case "output":
		source = DimOutput
	default:
		return 0, 0, errors.Wrapf(ErrInvalidDescriptor, "invalid dim source argument %q", sourceText)
	}

	if !hasIdx {
		return source, -1, nil
	}
	idx, err := strconv.Atoi(idxText)
	if err != nil || idx < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidDescriptor, "invalid dim source index %q", idxText)
	}
	return source, idx, nil
}

// parseLayout resolves a layout format token case-insensitively.
func parseLayout(text string) (DataLayout, error) {
	if layout, ok := layoutNames[strings.ToLower(text)]; ok {
		return layout, nil
	}
	return 0, errors.Wrapf(ErrInvalidDescriptor, "invalid format %q", text)
}

// parseSizeRule splits a size-rule string into its comma-separated symbolic
// sub-expressions. The expressions stay opaque; a collaborator evaluates
// them against actual tensor shapes later. Empty elements are preserved.
func parseSizeRule(text string) []string {
	return strings.Split(text, ",")
}

// loadKernelBinary reads the kernel file referenced by the node's first
// Source child, resolved against configDir. Only the first Source element is
// consulted even when several are present.
func loadKernelBinary(node *etree.Element, configDir string) ([]byte, error) {
	for _, src := range node.SelectElements("Source") {
		path := filepath.Join(configDir, xmlnode.StrDefault(src, "filename", ""))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(ErrKernelFileNotFound, "couldn't open kernel file %s: %v", path, err)
		}
		klog.V(2).Infof("loaded kernel binary %s (%d bytes)", path, len(data))
		return data, nil
	}
	return nil, errors.Wrap(ErrInvalidDescriptor, "kernel binary not found: descriptor has no Source element")
}

// parseParameters walks the node's Parameters block and returns the declared
// parameters in document order: all Tensor elements first, then Data, then
// Scalar. The variant parsers rely on this fixed ordering for positional
// argument binding.
func parseParameters(node *etree.Element) ([]KernelParam, error) {
	parameters := node.SelectElement("Parameters")
	if parameters == nil {
		return nil, nil
	}

	var params []KernelParam

	for _, tensor := range parameters.SelectElements("Tensor") {
		kp, err := parseTensorParam(tensor)
		if err != nil {
			return nil, err
		}
		params = append(params, kp)
	}

	for _, data := range parameters.SelectElements("Data") {
		kp, err := parseDataParam(data)
		if err != nil {
			return nil, err
		}
		params = append(params, kp)
	}

	for _, scalar := range parameters.SelectElements("Scalar") {
		kp, err := parseScalarParam(scalar)
		if err != nil {
			return nil, err
		}
		params = append(params, kp)
	}

	return params, nil
}

func parseTensorParam(tensor *etree.Element) (KernelParam, error) {
	kp := newKernelParam()

	kind, err := requireKind(tensor, tensorKinds)
	if err != nil {
		return kp, err
	}
	kp.Kind = kind

	if kind == ParamInputBuffer || kind == ParamOutputBuffer {
		sizeRule, err := requireAttr(tensor, "size")
		if err != nil {
			return kp, err
		}
		kp.BufferSizeRule = parseSizeRule(sizeRule)[0]

		dimText, err := requireAttr(tensor, "dim")
		if err != nil {
			return kp, err
		}
		kp.DimSource, kp.DimIndex, err = parseDimSource(dimText)
		if err != nil {
			return kp, err
		}
	}

	kp.Format, err = parseLayout(xmlnode.StrDefault(tensor, "format", "BFYX"))
	if err != nil {
		return kp, err
	}
	kp.ArgName, err = requireAttr(tensor, "arg-name")
	if err != nil {
		return kp, err
	}
	kp.PortIndex, err = requireIntAttr(tensor, "port-index")
	if err != nil {
		return kp, err
	}

	return kp, nil
}

func parseDataParam(data *etree.Element) (KernelParam, error) {
	kp := newKernelParam()

	kind, err := requireKind(data, dataKinds)
	if err != nil {
		return kp, err
	}
	kp.Kind = kind

	kp.ArgName, err = requireAttr(data, "arg-name")
	if err != nil {
		return kp, err
	}

	dimText := xmlnode.StrDefault(data, "dim", "")

	switch kind {
	case ParamData:
		// A Data value comes from exactly one place: a literal IR
		// attribute or an operand dimension.
		kp.IRSource = xmlnode.StrDefault(data, "source", "")
		if kp.IRSource == "" && dimText == "" {
			return kp, errors.Wrap(ErrInvalidDescriptor, "Data node has no source or dim")
		}
		if kp.IRSource != "" && dimText != "" {
			return kp, errors.Wrap(ErrInvalidDescriptor, "Data node can only have source or dim")
		}
	case ParamLocalData:
		// Local scratch needs a size rule; the dimension source is
		// optional.
		kp.BufferSizeRule, err = requireAttr(data, "size")
		if err != nil {
			return kp, err
		}
	}

	if dimText != "" {
		kp.DimSource, kp.DimIndex, err = parseDimSource(dimText)
		if err != nil {
			return kp, err
		}
	}

	return kp, nil
}

func parseScalarParam(scalar *etree.Element) (KernelParam, error) {
	kp := newKernelParam()

	kind, err := requireKind(scalar, scalarKinds)
	if err != nil {
		return kp, err
	}
	kp.Kind = kind

	kp.ArgName, err = requireAttr(scalar, "arg-name")
	if err != nil {
		return kp, err
	}
	kp.PortIndex, err = xmlnode.IntDefault(scalar, "port-index", -1)
	if err != nil {
		return kp, errors.Wrap(ErrInvalidDescriptor, err.Error())
	}
	kp.IRSource = xmlnode.StrDefault(scalar, "source", "")

	return kp, nil
}

// requireKind reads the node's type attribute and resolves it against the
// given token table, naming the node and the offending token on failure.
func requireKind(el *etree.Element, kinds map[string]ParamKind) (ParamKind, error) {
	text, err := requireAttr(el, "type")
	if err != nil {
		return 0, err
	}
	kind, ok := kinds[strings.ToLower(text)]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidDescriptor, "%s node has an invalid type %q", el.Tag, text)
	}
	return kind, nil
}

func requireAttr(el *etree.Element, name string) (string, error) {
	text, ok := xmlnode.Str(el, name)
	if !ok {
		return "", errors.Wrapf(ErrInvalidDescriptor, "%s node is missing the %q attribute", el.Tag, name)
	}
	return text, nil
}

func requireIntAttr(el *etree.Element, name string) (int, error) {
	v, ok, err := xmlnode.Int(el, name)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidDescriptor, err.Error())
	}
	if !ok {
		return 0, errors.Wrapf(ErrInvalidDescriptor, "%s node is missing the %q attribute", el.Tag, name)
	}
	return v, nil
}

// countInputData reports how many parameters the dispatcher must treat as
// operator inputs.
func countInputData(params []KernelParam) int {
	count := 0
	for _, p := range params {
		if p.Kind == ParamInput || p.Kind == ParamInputBuffer || p.Kind == ParamData {
			count++
		}
	}
	return count
}

// argumentNames returns the declaration-order argument name list.
func argumentNames(params []KernelParam) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.ArgName)
	}
	return names
}

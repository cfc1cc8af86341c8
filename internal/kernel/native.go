package kernel

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/vpukit/customkernel/internal/xmlnode"
)

// NewNative builds a native kernel descriptor from its XML node. Source
// filenames are resolved against configDir. The kernel partitions its own
// iteration space across the lanes, so WorkSizes carries only the dim
// attribute.
func NewNative(node *etree.Element, configDir string) (*Native, error) {
	k := &Native{}

	var err error
	k.maxShaves, err = xmlnode.IntDefault(node, "max-shaves", 0)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDescriptor, err.Error())
	}
	k.binary, err = loadKernelBinary(node, configDir)
	if err != nil {
		return nil, err
	}
	k.params, err = parseParameters(node)
	if err != nil {
		return nil, err
	}

	workSizes := node.SelectElement("WorkSizes")
	if workSizes == nil {
		return nil, errors.Wrap(ErrInvalidDescriptor, "descriptor has no WorkSizes element")
	}
	dims, err := requireAttr(workSizes, "dim")
	if err != nil {
		return nil, err
	}
	k.dimSource, k.dimIndex, err = parseDimSource(dims)
	if err != nil {
		return nil, err
	}

	k.inputDataCount = countInputData(k.params)
	k.argNames = argumentNames(k.params)

	klog.V(1).Infof("parsed native kernel descriptor: %d parameters, %d inputs, work dim %s,%d",
		len(k.params), k.inputDataCount, k.dimSource, k.dimIndex)
	return k, nil
}

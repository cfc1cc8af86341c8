package kernel

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Registry holds the custom-layer bindings loaded from one config file,
// keyed by layer name. Lookup is case-insensitive, matching the rest of the
// descriptor schema's token handling.
type Registry struct {
	layers map[string][]Descriptor
	names  []string
}

// LoadConfig parses a custom-layer config file. The file's root element is
// CustomLayers; each CustomLayer child binds an operator name to one or more
// kernel descriptors (NativeKernel or CompiledKernel nodes). Source
// filenames inside the descriptors are resolved relative to the config
// file's directory.
//
// A failing descriptor aborts only its own layer's construction; the error
// is wrapped with the layer name so the caller can attribute it to the
// operator.
func LoadConfig(path string) (*Registry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, "couldn't read custom layer config %s", path)
	}

	root := doc.Root()
	if root == nil || root.Tag != "CustomLayers" {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "config %s has no CustomLayers root element", path)
	}
	configDir := filepath.Dir(path)

	reg := &Registry{layers: make(map[string][]Descriptor)}
	for _, layer := range root.SelectElements("CustomLayer") {
		name, err := requireAttr(layer, "name")
		if err != nil {
			return nil, err
		}
		descriptors, err := parseLayer(layer, configDir)
		if err != nil {
			return nil, errors.WithMessagef(err, "custom layer %q", name)
		}

		key := strings.ToLower(name)
		if _, seen := reg.layers[key]; !seen {
			reg.names = append(reg.names, name)
		}
		reg.layers[key] = append(reg.layers[key], descriptors...)
	}

	klog.V(1).Infof("loaded custom layer config %s: %d layers", path, len(reg.names))
	return reg, nil
}

func parseLayer(layer *etree.Element, configDir string) ([]Descriptor, error) {
	var descriptors []Descriptor
	for _, node := range layer.ChildElements() {
		var (
			d   Descriptor
			err error
		)
		switch node.Tag {
		case "NativeKernel":
			d, err = NewNative(node, configDir)
		case "CompiledKernel":
			d, err = NewCompiled(node, configDir)
		default:
			return nil, errors.Wrapf(ErrInvalidDescriptor, "unknown kernel node %q", node.Tag)
		}
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	if len(descriptors) == 0 {
		return nil, errors.Wrap(ErrInvalidDescriptor, "layer declares no kernels")
	}
	return descriptors, nil
}

// Layer returns the descriptors bound to the named layer, in declaration
// order.
func (r *Registry) Layer(name string) ([]Descriptor, bool) {
	descriptors, ok := r.layers[strings.ToLower(name)]
	return descriptors, ok
}

// LayerNames lists the bound layer names in config order.
func (r *Registry) LayerNames() []string { return r.names }

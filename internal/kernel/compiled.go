package kernel

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/vpukit/customkernel/internal/shaveelf"
	"github.com/vpukit/customkernel/internal/xmlnode"
)

// NewCompiled builds a compiled kernel descriptor from its XML node. Beyond
// the shared descriptor fields it parses the global/local grid size rules
// and introspects the kernel binary's metadata sections to recover the
// authoritative argument order and to check the binary holds exactly the
// kernel the entry attribute names.
func NewCompiled(node *etree.Element, configDir string) (*Compiled, error) {
	k := &Compiled{}

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
	if err := k.parseWorkSizes(node); err != nil {
		return nil, err
	}
	k.inputDataCount = countInputData(k.params)

	entry, err := requireAttr(node, "entry")
	if err != nil {
		return nil, err
	}

	meta, err := openMetadata(k.binary)
	if err != nil {
		return nil, err
	}

	k.kernelID = meta.KernelID(entry)
	if k.kernelID < 0 {
		return nil, errors.Wrapf(ErrBinaryMismatch, "failed to find kernel with name %q", entry)
	}
	if count := meta.KernelCount(); count != 1 {
		return nil, errors.Wrapf(ErrBinaryMismatch,
			"failed to load kernel binary for entry %q: binary should contain only one kernel, but contains %d",
			entry, count)
	}

	k.argNames, err = deduceArgumentNames(meta, k.kernelID)
	if err != nil {
		return nil, err
	}

	klog.V(1).Infof("parsed compiled kernel descriptor %q: %d parameters, %d call arguments, %d inputs",
		entry, len(k.params), len(k.argNames), k.inputDataCount)
	return k, nil
}

func (k *Compiled) parseWorkSizes(node *etree.Element) error {
	workSizes := node.SelectElement("WorkSizes")
	if workSizes == nil {
		return errors.Wrap(ErrInvalidDescriptor, "descriptor has no WorkSizes element")
	}

	dims, err := requireAttr(workSizes, "dim")
	if err != nil {
		return err
	}
	k.dimSource, k.dimIndex, err = parseDimSource(dims)
	if err != nil {
		return err
	}

	global, err := requireAttr(workSizes, "global")
	if err != nil {
		return err
	}
	k.globalGridSizeRules = parseSizeRule(global)

	local, err := requireAttr(workSizes, "local")
	if err != nil {
		return err
	}
	k.localGridSizeRules = parseSizeRule(local)

	return nil
}

// openMetadata locates the two vendor metadata sections inside the kernel
// binary and builds the metadata query object over their byte ranges.
func openMetadata(binary []byte) (*shaveelf.Metadata, error) {
	elf, err := shaveelf.Parse(binary)
	if err != nil {
		return nil, err
	}

	md, ok := elf.Section(shaveelf.MetadataSection)
	if !ok {
		return nil, errors.Wrapf(shaveelf.ErrMalformedBinary,
			"couldn't find %s section in the kernel binary", shaveelf.MetadataSection)
	}
	str, ok := elf.Section(shaveelf.MetadataStrSection)
	if !ok {
		return nil, errors.Wrapf(shaveelf.ErrMalformedBinary,
			"couldn't find %s section in the kernel binary", shaveelf.MetadataStrSection)
	}

	return shaveelf.ParseMetadata(md, str)
}

// deduceArgumentNames enumerates the kernel's declared arguments in binary
// order, dropping the buffers the kernel compiler hoists in (they have no
// descriptor-level counterpart) and the one trailing sentinel entry the
// metadata always reports beyond the true argument count.
func deduceArgumentNames(meta *shaveelf.Metadata, kernelID int) ([]string, error) {
	argCount := meta.ArgumentCount(kernelID) - 1

	names := make([]string, 0, argCount)
	for i := 0; i < argCount; i++ {
		arg, err := meta.Argument(kernelID, i)
		if err != nil {
			return nil, errors.WithMessagef(err, "error while parsing argument %d of the kernel binary", i)
		}
		if arg.Flags&shaveelf.FlagGeneratedPrePost != 0 {
			continue
		}
		names = append(names, arg.Name)
	}
	return names, nil
}

// Command kernelcheck loads a custom-layer config file and reports what was
// bound, so kernel authors can validate their descriptors without running a
// full graph compilation.
//
// Usage:
//
//	kernelcheck [flags] custom_layers.xml
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/vpukit/customkernel/kernel"
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: kernelcheck [flags] <config.xml>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	reg, err := kernel.LoadConfig(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelcheck: %v\n", err)
		os.Exit(1)
	}

	p := &printer{}
	for _, name := range reg.LayerNames() {
		descriptors, _ := reg.Layer(name)
		fmt.Printf("%s: %d kernel(s)\n", name, len(descriptors))
		for _, d := range descriptors {
			if err := d.Accept(p); err != nil {
				fmt.Fprintf(os.Stderr, "kernelcheck: layer %q: %v\n", name, err)
				os.Exit(1)
			}
		}
	}
}

// printer reports each descriptor's binding summary, one flavor at a time.
type printer struct{}

func (p *printer) VisitNative(k *kernel.Native) error {
	fmt.Printf("  native kernel: binary %s, work dim %s,%d%s\n",
		humanize.Bytes(uint64(len(k.Binary()))), k.DimSource(), k.DimIndex(), maxShaves(k.MaxShaves()))
	printParams(k)
	return nil
}

func (p *printer) VisitCompiled(k *kernel.Compiled) error {
	fmt.Printf("  compiled kernel #%d: binary %s, work dim %s,%d, global [%s], local [%s]%s\n",
		k.KernelID(), humanize.Bytes(uint64(len(k.Binary()))), k.DimSource(), k.DimIndex(),
		strings.Join(k.GlobalGridSizeRules(), ","), strings.Join(k.LocalGridSizeRules(), ","),
		maxShaves(k.MaxShaves()))
	printParams(k)
	fmt.Printf("    call order: %s\n", strings.Join(k.ArgumentNames(), ", "))
	return nil
}

func printParams(d kernel.Descriptor) {
	for _, param := range d.Params() {
		fmt.Printf("    %-12s %-16s port=%d format=%s\n",
			param.Kind, param.ArgName, param.PortIndex, param.Format)
	}
	fmt.Printf("    %d of %d parameters are inputs\n", d.InputDataCount(), len(d.Params()))
}

func maxShaves(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(", max %d shaves", n)
}

package kernel

import internalkernel "github.com/vpukit/customkernel/internal/kernel"

// Visitor is the dispatch contract between a descriptor and its consumer.
// A descriptor's Accept invokes exactly one of the two methods, letting the
// consumer branch on kernel flavor without inspecting a type tag. The
// variant set is closed; adding a flavor extends this interface rather than
// any consumer's type switches.
type Visitor = internalkernel.Visitor

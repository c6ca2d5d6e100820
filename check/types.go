package check

import "rainbow/rtype"

// Type is a local alias so the rest of this package reads without every
// signature spelling out the rtype package name.
type Type = rtype.Type

func Var(name string) Type { return rtype.Var(name) }

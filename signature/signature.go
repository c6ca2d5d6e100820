package signature

import (
	"strings"

	"rainbow/arena"
	"rainbow/rtype"
)

// Argument is one declared parameter of a Signature.
type Argument struct {
	NameID   arena.ID
	Name     string
	Type     rtype.Type
	Variadic bool
	Required bool
}

// Signature is a host function's name, ordered keyword arguments, return
// type, and totality flag. The function's name is the first argument's
// name — Rainbow call syntax makes the function name the first keyword.
type Signature struct {
	Args       []Argument
	ReturnType rtype.Type
	Total      bool
}

// Name returns the function's name: the first argument's name.
func (s *Signature) Name() string {
	return s.Args[0].Name
}

// Arg looks up a declared argument by name.
func (s *Signature) Arg(name string) (Argument, bool) {
	for _, a := range s.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// Returns reports the function's declared return type.
func (s *Signature) Returns() rtype.Type {
	return s.ReturnType
}

// IsTotal reports whether the host has declared this function cannot fail.
func (s *Signature) IsTotal() bool {
	return s.Total
}

// String renders the signature as "name: type [*][?] ... :: returnType".
func (s *Signature) String() string {
	var b strings.Builder
	for i, a := range s.Args {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Type.String())
		if a.Variadic {
			b.WriteString("*")
		}
		if !a.Required {
			b.WriteString("?")
		}
	}
	b.WriteString(" :: ")
	b.WriteString(s.ReturnType.String())
	return b.String()
}

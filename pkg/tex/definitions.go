// definitions.go defines the records produced for each recognized definition site.
package tex

import "strings"

// Definition is one parsed definition. The set of implementations is closed:
// CommandDef, PrimitiveDef, LetDef, EnvironmentDef, NewIfDef, MathOperatorDef.
type Definition interface {
	// MacroName is the defined name without backslash (the environment
	// name for EnvironmentDef, the base name for NewIfDef).
	MacroName() string
	// Arity is the number of arguments the definition takes.
	Arity() int
	// Source is the control sequence that introduced the definition.
	Source() string
	isDefinition()
}

// CommandMode distinguishes \newcommand, \renewcommand and \providecommand.
type CommandMode int

const (
	CommandNew CommandMode = iota
	CommandRenew
	CommandProvide
)

func (m CommandMode) String() string {
	switch m {
	case CommandRenew:
		return "renew"
	case CommandProvide:
		return "provide"
	}
	return "new"
}

// CommandDef is produced by \newcommand, \renewcommand, \providecommand,
// \DeclareRobustCommand, \NewDocumentCommand and \RenewDocumentCommand.
type CommandDef struct {
	Command    string
	Mode       CommandMode
	Name       string
	NumArgs    int
	Default    TokenList // the optional first argument's default
	HasDefault bool
	Body       TokenList
}

// PrimitiveDef is produced by \def, \gdef, \edef and \xdef.
type PrimitiveDef struct {
	Command   string
	Name      string
	Signature Signature
	Body      TokenList
	Expanded  bool // \edef, \xdef
	Global    bool // \gdef, \xdef
}

// LetDef is produced by \let\name=\target.
type LetDef struct {
	Name   string
	Target string
}

// EnvironmentDef is produced by \newenvironment and \renewenvironment.
type EnvironmentDef struct {
	Command    string
	Renew      bool
	Name       string
	NumArgs    int
	Default    TokenList
	HasDefault bool
	Begin      TokenList
	End        TokenList
}

// NewIfDef is produced by \newif\ifname. Only the base name is kept.
type NewIfDef struct {
	BaseName string
}

// MathOperatorDef is produced by \DeclareMathOperator.
type MathOperatorDef struct {
	Name    string
	Body    TokenList
	Starred bool
}

func (CommandDef) isDefinition()      {}
func (PrimitiveDef) isDefinition()    {}
func (LetDef) isDefinition()          {}
func (EnvironmentDef) isDefinition()  {}
func (NewIfDef) isDefinition()        {}
func (MathOperatorDef) isDefinition() {}

func (d CommandDef) MacroName() string { return d.Name }
func (d CommandDef) Arity() int        { return d.NumArgs }
func (d CommandDef) Source() string    { return d.Command }

func (d PrimitiveDef) MacroName() string { return d.Name }
func (d PrimitiveDef) Source() string    { return d.Command }

// Arity returns the signature's argument count.
func (d PrimitiveDef) Arity() int {
	if d.Signature == nil {
		return 0
	}
	return d.Signature.NumArgs()
}

func (d LetDef) MacroName() string { return d.Name }
func (d LetDef) Arity() int        { return 0 }
func (d LetDef) Source() string    { return "let" }

func (d EnvironmentDef) MacroName() string { return d.Name }
func (d EnvironmentDef) Arity() int        { return d.NumArgs }
func (d EnvironmentDef) Source() string    { return d.Command }

// MacroNames returns the begin and end macros an environment defines.
func (d EnvironmentDef) MacroNames() []string {
	return []string{d.Name, "end" + d.Name}
}

func (d NewIfDef) MacroName() string { return d.BaseName }
func (d NewIfDef) Arity() int        { return 0 }
func (d NewIfDef) Source() string    { return "newif" }

// MacroNames returns the conditional and its two switches.
func (d NewIfDef) MacroNames() []string {
	return []string{"if" + d.BaseName, d.BaseName + "true", d.BaseName + "false"}
}

func (d MathOperatorDef) MacroName() string { return d.Name }
func (d MathOperatorDef) Arity() int        { return 0 }
func (d MathOperatorDef) Source() string    { return "DeclareMathOperator" }

// DefinitionKind returns a short label for d, e.g. "command" or "environment".
func DefinitionKind(d Definition) string {
	switch d.(type) {
	case CommandDef:
		return "command"
	case PrimitiveDef:
		return "primitive"
	case LetDef:
		return "let"
	case EnvironmentDef:
		return "environment"
	case NewIfDef:
		return "newif"
	case MathOperatorDef:
		return "operator"
	}
	return "unknown"
}

// DescribeSignature returns a one-line summary of how d takes arguments.
func DescribeSignature(d Definition) string {
	switch d := d.(type) {
	case PrimitiveDef:
		if d.Signature != nil {
			return d.Signature.String()
		}
	case LetDef:
		return "= \\" + d.Target
	case NewIfDef:
		return strings.Join(d.MacroNames(), ", ")
	case CommandDef:
		if d.HasDefault {
			return SimpleSignature{Arity: d.NumArgs}.String() + " [" + d.Default.String() + "]"
		}
	case EnvironmentDef:
		if d.HasDefault {
			return SimpleSignature{Arity: d.NumArgs}.String() + " [" + d.Default.String() + "]"
		}
	}
	return SimpleSignature{Arity: d.Arity()}.String()
}

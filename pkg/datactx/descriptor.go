package datactx

import (
	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/validation"
)

// Kind classifies a declared property.
type Kind int

const (
	// KindPlain is a value property, slot-backed or with custom accessors.
	KindPlain Kind = iota

	// KindCommand is a property whose value is a lazily created Command.
	KindCommand

	// KindComponent is a property whose value is an owned child Context.
	KindComponent
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCommand:
		return "command"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Getter reads a custom property.
type Getter func(c *Context) any

// Setter writes a custom property. A returned error is recorded in the
// context's error collector under the property name.
type Setter func(c *Context, v any) error

// Supplier computes a default value on each read of an unset slot.
type Supplier func(c *Context) any

// InitFunc runs at construction with the arguments given to Type.New.
type InitFunc func(c *Context, args ...any) error

// DescribeFunc projects one property of c into a snapshot record.
type DescribeFunc func(c *Context, key string) map[string]any

// Decl is the declaration shape of a property. Which fields are set decides
// the classification: Execute or CanExecute makes a command, Component makes
// a component, anything else is a plain property.
type Decl struct {
	// Default is the value of an unset slot.
	Default any

	// Lazy, if set, supplies the default instead of Default.
	Lazy Supplier

	// Get and Set replace the private slot. Get alone makes the property
	// read-only.
	Get Getter
	Set Setter

	// Dependent names are re-notified whenever this property changes.
	Dependent []string

	// Component declares an owned child context of this type.
	Component *Type

	// Command configuration.
	Execute    command.Action
	CanExecute command.Condition
	Modifiers  []command.Modifier

	// Validators and Rules run on every write. Rules are validator tags
	// such as "required,min=3".
	Validators []validation.Validator
	Rules      []string

	// Init runs at construction time.
	Init InitFunc

	// Describe overrides the default projection.
	Describe DescribeFunc
}

// Declaration names a Decl.
type Declaration struct {
	Name string
	Decl
}

// Property is shorthand for a Declaration literal.
func Property(name string, d Decl) Declaration {
	return Declaration{Name: name, Decl: d}
}

// Descriptor is the resolved declaration of a property for one type, after
// merging every ancestor's declaration of the same name.
type Descriptor struct {
	Decl

	Name     string
	Kind     Kind
	Writable bool

	// Owner is the most derived type that declared this name.
	Owner *Type
}

// HasValidation reports whether writes run validators.
func (d *Descriptor) HasValidation() bool {
	return len(d.Validators) > 0 || len(d.Rules) > 0
}

// Project returns the projection record of the property on c, using the
// declared Describe function when present.
func (d *Descriptor) Project(c *Context) map[string]any {
	if d.Describe != nil {
		return d.Describe(c, d.Name)
	}
	switch d.Kind {
	case KindCommand:
		return DescribeCommand(c, d.Name)
	case KindComponent:
		return DescribeComponent(c, d.Name)
	default:
		return DescribePlain(c, d.Name)
	}
}

func classify(d Decl) Kind {
	switch {
	case d.Execute != nil || d.CanExecute != nil:
		return KindCommand
	case d.Component != nil:
		return KindComponent
	default:
		return KindPlain
	}
}

// merge overlays the non-zero fields of d onto base. A non-command
// declared over a command drops the command configuration.
func merge(owner *Type, base *Descriptor, d Declaration) *Descriptor {
	out := &Descriptor{Name: d.Name, Owner: owner}
	if base != nil {
		out.Decl = base.Decl
		if base.Kind == KindCommand && classify(d.Decl) != KindCommand {
			out.Execute = nil
			out.CanExecute = nil
			out.Modifiers = nil
		}
	}

	if d.Default != nil {
		out.Default = d.Default
	}
	if d.Lazy != nil {
		out.Lazy = d.Lazy
	}
	if d.Get != nil {
		out.Get = d.Get
	}
	if d.Set != nil {
		out.Set = d.Set
	}
	if d.Dependent != nil {
		out.Dependent = d.Dependent
	}
	if d.Component != nil {
		out.Component = d.Component
	}
	if d.Execute != nil {
		out.Execute = d.Execute
	}
	if d.CanExecute != nil {
		out.CanExecute = d.CanExecute
	}
	if d.Modifiers != nil {
		out.Modifiers = d.Modifiers
	}
	if d.Validators != nil {
		out.Validators = d.Validators
	}
	if d.Rules != nil {
		out.Rules = d.Rules
	}
	if d.Init != nil {
		out.Init = d.Init
	}
	if d.Describe != nil {
		out.Describe = d.Describe
	}

	out.Kind = classify(out.Decl)
	out.Writable = out.Kind == KindPlain && (out.Get == nil || out.Set != nil)
	return out
}

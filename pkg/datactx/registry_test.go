package datactx

import (
	"errors"
	"testing"

	dcerrors "github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/command"
)

func noop(any, ...any) (command.Outcome, error) {
	return command.Immediate(nil), nil
}

func always(any, ...any) bool { return true }

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPlain, "plain"},
		{KindCommand, "command"},
		{KindComponent, "component"},
		{Kind(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDeclareClassification(t *testing.T) {
	reg := quietRegistry()
	child := reg.MustNewType("Child", nil)
	typ := reg.MustNewType("Parent", nil).MustDeclare(
		Property("slot", Decl{Default: 1}),
		Property("custom", Decl{Get: func(*Context) any { return 1 }, Set: func(*Context, any) error { return nil }}),
		Property("computed", Decl{Get: func(*Context) any { return 2 }}),
		Property("run", Decl{Execute: noop}),
		Property("guarded", Decl{Execute: noop, CanExecute: always}),
		Property("child", Decl{Component: child}),
	)

	tests := []struct {
		name     string
		kind     Kind
		writable bool
	}{
		{"slot", KindPlain, true},
		{"custom", KindPlain, true},
		{"computed", KindPlain, false},
		{"run", KindCommand, false},
		{"guarded", KindCommand, false},
		{"child", KindComponent, false},
	}
	for _, tt := range tests {
		d, ok := typ.Property(tt.name)
		if !ok {
			t.Errorf("Property(%q) not found", tt.name)
			continue
		}
		if d.Kind != tt.kind || d.Writable != tt.writable {
			t.Errorf("%s: kind %v writable %v, want %v %v", tt.name, d.Kind, d.Writable, tt.kind, tt.writable)
		}
		if d.Owner != typ {
			t.Errorf("%s: owner = %v, want Parent", tt.name, d.Owner)
		}
	}

	if _, ok := typ.Property("missing"); ok {
		t.Error("Property(missing) found")
	}
}

func TestDeclareErrors(t *testing.T) {
	reg := quietRegistry()
	base := reg.MustNewType("Base", nil).MustDeclare(
		Property("title", Decl{Default: ""}),
		Property("child", Decl{Component: reg.MustNewType("Leaf", nil)}),
	)
	other := NewRegistry().MustNewType("Foreign", nil)

	// CycA -> CycB -> CycA
	cycA := reg.MustNewType("CycA", nil)
	cycB := reg.MustNewType("CycB", nil).MustDeclare(Property("a", Decl{Component: cycA}))

	// Holder -> Wrap -> SubHolder, which inherits Holder's properties.
	holder := reg.MustNewType("Holder", nil)
	wrap := reg.MustNewType("Wrap", nil).MustDeclare(
		Property("h", Decl{Component: reg.MustNewType("SubHolder", holder)}),
	)

	tests := []struct {
		name     string
		typ      *Type
		decls    []Declaration
		code     string
		sentinel error
	}{
		{
			name:     "empty name",
			decls:    []Declaration{Property("", Decl{Default: 1})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "duplicate in one call",
			decls:    []Declaration{Property("a", Decl{}), Property("a", Decl{})},
			code:     "DC003",
			sentinel: ErrDuplicateProperty,
		},
		{
			name:     "execute and component",
			decls:    []Declaration{Property("a", Decl{Execute: noop, Component: base})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "guard without action",
			decls:    []Declaration{Property("a", Decl{CanExecute: always})},
			code:     "DC002",
			sentinel: command.ErrMissingAction,
		},
		{
			name:     "component with accessors",
			decls:    []Declaration{Property("a", Decl{Component: base, Get: func(*Context) any { return nil }})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "set without get",
			decls:    []Declaration{Property("a", Decl{Set: func(*Context, any) error { return nil }})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "command over plain",
			typ:      reg.MustNewType("Derived1", base),
			decls:    []Declaration{Property("title", Decl{Execute: noop})},
			code:     "DC004",
			sentinel: ErrCommandOverride,
		},
		{
			name:     "command over component",
			typ:      reg.MustNewType("Derived2", base),
			decls:    []Declaration{Property("child", Decl{Execute: noop})},
			code:     "DC004",
			sentinel: ErrCommandOverride,
		},
		{
			name:  "bad modifier",
			decls: []Declaration{Property("a", Decl{Execute: noop, Modifiers: []command.Modifier{command.Debounce(0)}})},
			code:  "DC009",
		},
		{
			name:     "foreign component",
			decls:    []Declaration{Property("a", Decl{Component: other})},
			code:     "DC005",
			sentinel: ErrInvalidType,
		},
		{
			name:     "self-containing component",
			typ:      base,
			decls:    []Declaration{Property("self", Decl{Component: base})},
			code:     "DC005",
			sentinel: ErrInvalidType,
		},
		{
			name:     "indirect component cycle",
			typ:      cycA,
			decls:    []Declaration{Property("b", Decl{Component: cycB})},
			code:     "DC005",
			sentinel: ErrInvalidType,
		},
		{
			name:     "component cycle through a derived type",
			typ:      holder,
			decls:    []Declaration{Property("w", Decl{Component: wrap})},
			code:     "DC005",
			sentinel: ErrInvalidType,
		},
		{
			name:     "unknown validation rule",
			decls:    []Declaration{Property("a", Decl{Default: "", Rules: []string{"required,nosuchrule"}})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "malformed validation rule",
			decls:    []Declaration{Property("a", Decl{Default: "", Rules: []string{"keys"}})},
			code:     "DC001",
			sentinel: ErrInvalidDefinition,
		},
		{
			name:     "foreign type",
			typ:      other,
			decls:    []Declaration{Property("a", Decl{})},
			code:     "DC005",
			sentinel: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := tt.typ
			if typ == nil {
				typ = reg.MustNewType("T", nil)
			}
			err := reg.DeclareProperties(typ, tt.decls...)
			if err == nil {
				t.Fatal("DeclareProperties() error = nil")
			}
			if !errors.Is(err, dcerrors.New(tt.code)) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if dcerrors.CategoryOf(err) != dcerrors.CategoryConfig {
				t.Errorf("category = %q, want config", dcerrors.CategoryOf(err))
			}
		})
	}
}

func TestDeclareIsAtomic(t *testing.T) {
	reg := quietRegistry()
	typ := reg.MustNewType("T", nil)
	err := typ.Declare(
		Property("ok", Decl{Default: 1}),
		Property("bad", Decl{CanExecute: always}),
	)
	if err == nil {
		t.Fatal("Declare() error = nil")
	}
	if names := typ.Names(); len(names) != 0 {
		t.Errorf("Names() after failed declare = %v, want none", names)
	}
}

func TestCommandOverridePermissions(t *testing.T) {
	reg := quietRegistry()
	base := reg.MustNewType("Base", nil).MustDeclare(
		Property("save", Decl{Execute: noop, Modifiers: []command.Modifier{command.Once()}}),
	)

	// A command may refine a command.
	guarded := reg.MustNewType("Guarded", base)
	if err := guarded.Declare(Property("save", Decl{CanExecute: always})); err != nil {
		t.Fatalf("command over command: %v", err)
	}
	d, _ := guarded.Property("save")
	if d.Kind != KindCommand || d.Execute == nil || d.CanExecute == nil || len(d.Modifiers) != 1 {
		t.Errorf("merged command = %+v", d)
	}

	// A plain property may replace a command.
	plain := reg.MustNewType("Plain", base)
	if err := plain.Declare(Property("save", Decl{Default: "x"})); err != nil {
		t.Fatalf("plain over command: %v", err)
	}
	d, _ = plain.Property("save")
	if d.Kind != KindPlain || !d.Writable || d.Execute != nil || d.Modifiers != nil {
		t.Errorf("plain over command = kind %v writable %v", d.Kind, d.Writable)
	}
	if d.Default != "x" {
		t.Errorf("Default = %v, want x", d.Default)
	}
}

func TestResolveMergesShallow(t *testing.T) {
	reg := quietRegistry()
	base := reg.MustNewType("Base", nil).MustDeclare(
		Property("x", Decl{Default: 1, Dependent: []string{"y"}, Rules: []string{"min=0"}}),
		Property("y", Decl{Default: 0}),
	)
	mid := reg.MustNewType("Mid", base)
	derived := reg.MustNewType("Derived", mid).MustDeclare(
		Property("x", Decl{Default: 2}),
		Property("z", Decl{Default: "z"}),
	)

	d, ok := reg.ResolveProperty(derived, "x")
	if !ok {
		t.Fatal("ResolveProperty(x) not found")
	}
	if d.Default != 2 {
		t.Errorf("Default = %v, want 2", d.Default)
	}
	if !equalStrings(d.Dependent, []string{"y"}) || !equalStrings(d.Rules, []string{"min=0"}) {
		t.Errorf("inherited fields lost: %+v", d)
	}
	if d.Owner != derived {
		t.Errorf("Owner = %v, want Derived", d.Owner)
	}

	if d, _ := reg.ResolveProperty(mid, "x"); d.Default != 1 {
		t.Errorf("Mid x Default = %v, want 1", d.Default)
	}
	if _, ok := reg.ResolveProperty(base, "z"); ok {
		t.Error("base sees a derived property")
	}
	if _, ok := reg.ResolveProperty(nil, "x"); ok {
		t.Error("ResolveProperty(nil) found a property")
	}

	all := reg.AllProperties(derived)
	if len(all) != 3 || all["x"].Default != 2 || all["y"] == nil || all["z"] == nil {
		t.Errorf("AllProperties() = %v", all)
	}

	want := []string{"x", "y", "z"}
	if got := reg.Names(derived); !equalStrings(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRedeclareInvalidatesDescendants(t *testing.T) {
	reg := quietRegistry()
	base := reg.MustNewType("Base", nil).MustDeclare(Property("x", Decl{Default: 1}))
	derived := reg.MustNewType("Derived", base)

	if d, _ := derived.Property("x"); d.Default != 1 {
		t.Fatalf("Default = %v, want 1", d.Default)
	}
	base.MustDeclare(Property("x", Decl{Default: 5}))
	if d, _ := derived.Property("x"); d.Default != 5 {
		t.Errorf("Default after redeclare = %v, want 5", d.Default)
	}
	if names := base.Names(); len(names) != 1 {
		t.Errorf("redeclare duplicated the name: %v", names)
	}
}

func TestNewTypeErrors(t *testing.T) {
	reg := quietRegistry()
	if _, err := reg.NewType("", nil); !errors.Is(err, ErrInvalidType) {
		t.Errorf("NewType(\"\") error = %v, want ErrInvalidType", err)
	}
	foreign := NewRegistry().MustNewType("Foreign", nil)
	if _, err := reg.NewType("T", foreign); !errors.Is(err, dcerrors.New("DC005")) {
		t.Errorf("foreign parent error = %v, want DC005", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustNewType(\"\") did not panic")
		}
	}()
	reg.MustNewType("", nil)
}

func TestTypeAccessors(t *testing.T) {
	reg := quietRegistry(WithScheduler(nil))
	base := reg.MustNewType("Base", nil)
	derived := reg.MustNewType("Derived", base)

	if derived.Parent() != base || derived.Registry() != reg || derived.String() != "Derived" {
		t.Error("type accessors mismatch")
	}
	chain := derived.Ancestors()
	if len(chain) != 2 || chain[0] != derived || chain[1] != base {
		t.Errorf("Ancestors() = %v", chain)
	}
	if reg.Config().Scheduler == nil || reg.Loop() == nil {
		t.Error("nil scheduler option replaced the owned loop")
	}
}

package datactx

// Type identifies a kind of data context. Types form a single-inheritance
// chain through their parent; property declarations live in the Registry
// that created the type.
type Type struct {
	name     string
	parent   *Type
	registry *Registry
	init     []InitFunc
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// WithInitializer adds a hook that runs after every property Init hook.
// Initializers run ancestors first.
func WithInitializer(fn InitFunc) TypeOption {
	return func(t *Type) {
		if fn != nil {
			t.init = append(t.init, fn)
		}
	}
}

// Name returns the type name.
func (t *Type) Name() string {
	return t.name
}

// Parent returns the parent type, or nil.
func (t *Type) Parent() *Type {
	return t.parent
}

// Registry returns the registry that owns t.
func (t *Type) Registry() *Registry {
	return t.registry
}

// Ancestors returns t followed by its ancestors, most derived first.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// Declare registers properties on t. See Registry.DeclareProperties.
func (t *Type) Declare(decls ...Declaration) error {
	return t.registry.DeclareProperties(t, decls...)
}

// MustDeclare is like Declare but panics on error.
func (t *Type) MustDeclare(decls ...Declaration) *Type {
	t.registry.MustDeclareProperties(t, decls...)
	return t
}

// Property returns the resolved descriptor of name.
func (t *Type) Property(name string) (*Descriptor, bool) {
	return t.registry.ResolveProperty(t, name)
}

// Properties returns every property visible on t.
func (t *Type) Properties() map[string]*Descriptor {
	return t.registry.AllProperties(t)
}

// Names returns the visible property names in declaration order.
func (t *Type) Names() []string {
	return t.registry.Names(t)
}

// New constructs a context. args are forwarded to every Init hook in
// declaration order and then to the type initializers.
func (t *Type) New(args ...any) (*Context, error) {
	return construct(t, nil, nil, "", args)
}

// MustNew is like New but panics on error.
func (t *Type) MustNew(args ...any) *Context {
	c, err := t.New(args...)
	if err != nil {
		panic(err)
	}
	return c
}

func (t *Type) derivesFrom(base *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == base {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.name
}

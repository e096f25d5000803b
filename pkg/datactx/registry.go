package datactx

import (
	"sync"

	"github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/loop"
	"github.com/vango-dev/datacontext/pkg/validation"
)

// Registry holds the property declarations of a family of types.
// Declarations are keyed by type identity and resolved through each type's
// explicit ancestor chain. A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	own      map[*Type]*declSet
	resolved map[*Type]map[string]*Descriptor

	cfg Config
}

// declSet is the declarations made directly on one type.
type declSet struct {
	order  []string
	byName map[string]Declaration
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = loop.New(loop.WithLogger(cfg.Logger))
	}
	return &Registry{
		own:      make(map[*Type]*declSet),
		resolved: make(map[*Type]map[string]*Descriptor),
		cfg:      cfg,
	}
}

// Config returns the registry configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

// Loop returns the loop commands post finalisation to, or nil when a
// custom Scheduler that is not a *loop.Loop was configured. The caller
// drives it with Run, RunUntil or Drain.
func (r *Registry) Loop() *loop.Loop {
	l, _ := r.cfg.Scheduler.(*loop.Loop)
	return l
}

// NewType creates a type named name deriving from parent, which may be nil.
// The parent must belong to r.
func (r *Registry) NewType(name string, parent *Type, opts ...TypeOption) (*Type, error) {
	if name == "" {
		return nil, errors.New("DC005").WithDetail("empty type name").Wrap(ErrInvalidType)
	}
	if parent != nil && parent.registry != r {
		return nil, errors.New("DC005").
			WithDetailf("parent %q of %q belongs to another registry", parent.name, name).
			Wrap(ErrInvalidType)
	}

	t := &Type{name: name, parent: parent, registry: r}
	for _, opt := range opts {
		opt(t)
	}

	r.mu.Lock()
	r.own[t] = &declSet{byName: make(map[string]Declaration)}
	r.mu.Unlock()
	return t, nil
}

// MustNewType is like NewType but panics on error.
func (r *Registry) MustNewType(name string, parent *Type, opts ...TypeOption) *Type {
	t, err := r.NewType(name, parent, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// DeclareProperties registers decls on t. Either every declaration is
// accepted or none is.
//
// A later call may redeclare a name already declared on t; the new
// declaration replaces the old one in place.
func (r *Registry) DeclareProperties(t *Type, decls ...Declaration) error {
	if t == nil || t.registry != r {
		return errors.New("DC005").WithDetail("type is not registered here").Wrap(ErrInvalidType)
	}

	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if d.Name == "" {
			return errors.New("DC001").WithDetailf("%s: empty property name", t.name).Wrap(ErrInvalidDefinition)
		}
		if seen[d.Name] {
			return errors.New("DC003").WithDetailf("%s.%s", t.name, d.Name).Wrap(ErrDuplicateProperty)
		}
		seen[d.Name] = true

		if err := r.check(t, d); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.own[t]
	for _, d := range decls {
		if _, ok := set.byName[d.Name]; !ok {
			set.order = append(set.order, d.Name)
		}
		set.byName[d.Name] = d
	}
	// Descendants may have cached descriptors built on t.
	r.resolved = make(map[*Type]map[string]*Descriptor)
	return nil
}

// check validates d as if it were declared on t.
func (r *Registry) check(t *Type, d Declaration) error {
	where := t.name + "." + d.Name

	if d.Execute != nil && d.Component != nil {
		return errors.New("DC001").WithDetailf("%s: both Execute and Component set", where).Wrap(ErrInvalidDefinition)
	}

	existing, _ := r.ResolveProperty(t, d.Name)
	if classify(d.Decl) == KindCommand && existing != nil && existing.Kind != KindCommand {
		return errors.New("DC004").WithDetailf("%s overrides a %s property", where, existing.Kind).Wrap(ErrCommandOverride)
	}

	base, _ := r.ResolveProperty(t.parent, d.Name)
	m := merge(t, base, d)

	switch m.Kind {
	case KindCommand:
		if m.Execute == nil {
			return errors.New("DC002").WithDetail(where).Wrap(command.ErrMissingAction)
		}
		opts := append(r.cfg.commandOptions(), command.WithName(d.Name), command.WithModifiers(m.Modifiers...))
		if _, err := command.New(m.Execute, opts...); err != nil {
			return err
		}
	case KindComponent:
		if m.Get != nil || m.Set != nil {
			return errors.New("DC001").WithDetailf("%s: components cannot have custom accessors", where).Wrap(ErrInvalidDefinition)
		}
		if m.Component.registry != r {
			return errors.New("DC005").WithDetailf("%s: component type %q belongs to another registry", where, m.Component.name).Wrap(ErrInvalidType)
		}
		if r.reaches(m.Component, t) {
			return errors.New("DC005").WithDetailf("%s: component type %q would contain itself", where, m.Component.name).Wrap(ErrInvalidType)
		}
	default:
		if m.Set != nil && m.Get == nil {
			return errors.New("DC001").WithDetailf("%s: Set without Get", where).Wrap(ErrInvalidDefinition)
		}
		for _, rule := range m.Rules {
			if err := validation.CheckRule(rule); err != nil {
				return errors.New("DC001").WithDetailf("%s: %v", where, err).Wrap(ErrInvalidDefinition)
			}
		}
	}
	return nil
}

// reaches reports whether constructing from would construct a type that
// derives from t, following components through every resolved property.
func (r *Registry) reaches(from, t *Type) bool {
	seen := make(map[*Type]bool)
	stack := []*Type{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.derivesFrom(t) {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, d := range r.resolve(cur) {
			if d.Kind == KindComponent {
				stack = append(stack, d.Component)
			}
		}
	}
	return false
}

// MustDeclareProperties is like DeclareProperties but panics on error.
func (r *Registry) MustDeclareProperties(t *Type, decls ...Declaration) {
	if err := r.DeclareProperties(t, decls...); err != nil {
		panic(err)
	}
}

// ResolveProperty returns the descriptor of name for t, merged over every
// ancestor declaring the same name.
func (r *Registry) ResolveProperty(t *Type, name string) (*Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	d, ok := r.resolve(t)[name]
	return d, ok
}

// AllProperties returns every property visible on t. The map is shared;
// callers must not modify it.
func (r *Registry) AllProperties(t *Type) map[string]*Descriptor {
	if t == nil {
		return nil
	}
	return r.resolve(t)
}

// Names returns the property names visible on t in declaration order,
// ancestors first.
func (r *Registry) Names(t *Type) []string {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := t.Ancestors()
	seen := make(map[string]bool)
	var names []string
	for i := len(chain) - 1; i >= 0; i-- {
		set := r.own[chain[i]]
		if set == nil {
			continue
		}
		for _, name := range set.order {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func (r *Registry) resolve(t *Type) map[string]*Descriptor {
	r.mu.RLock()
	cached, ok := r.resolved[t]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(t)
}

func (r *Registry) resolveLocked(t *Type) map[string]*Descriptor {
	if cached, ok := r.resolved[t]; ok {
		return cached
	}

	out := make(map[string]*Descriptor)
	if t.parent != nil {
		for name, d := range r.resolveLocked(t.parent) {
			out[name] = d
		}
	}
	if set := r.own[t]; set != nil {
		for _, name := range set.order {
			out[name] = merge(t, out[name], set.byName[name])
		}
	}

	r.resolved[t] = out
	return out
}

package datactx

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/datacontext/internal/errors"
	"github.com/vango-dev/datacontext/pkg/command"
	"github.com/vango-dev/datacontext/pkg/validation"
)

// Context is an instance of a Type: a set of observable properties,
// commands and child components with an error collector.
//
// A Context is not safe for concurrent use. All calls must happen on the
// goroutine that drains the configured scheduler.
type Context struct {
	typ    *Type
	cfg    *Config
	logger *slog.Logger

	// Set for component children.
	parent *Context
	desc   *Descriptor
	name   string

	errs       *validation.Collector
	slots      map[string]any
	commands   map[string]*command.Command
	components map[string]*Context

	subs     map[string][]*Subscription
	attached []*Subscription

	validating bool
}

// ComponentInfo is what a component child receives ahead of the extra
// construction arguments.
type ComponentInfo struct {
	Parent     *Context
	Descriptor *Descriptor
	Name       string
	Args       []any
}

// ComponentArgs decodes the arguments an Init hook receives when its
// context is constructed as a component. It reports false for root
// contexts.
func ComponentArgs(args []any) (ComponentInfo, bool) {
	if len(args) < 3 {
		return ComponentInfo{}, false
	}
	parent, ok1 := args[0].(*Context)
	desc, ok2 := args[1].(*Descriptor)
	name, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return ComponentInfo{}, false
	}
	return ComponentInfo{Parent: parent, Descriptor: desc, Name: name, Args: args[3:]}, true
}

func construct(t *Type, parent *Context, desc *Descriptor, name string, args []any) (*Context, error) {
	reg := t.registry
	c := &Context{
		typ:        t,
		cfg:        &reg.cfg,
		logger:     reg.cfg.Logger.With("type", t.name),
		parent:     parent,
		desc:       desc,
		name:       name,
		errs:       validation.NewCollector(),
		slots:      make(map[string]any),
		commands:   make(map[string]*command.Command),
		components: make(map[string]*Context),
		subs:       make(map[string][]*Subscription),
	}

	names := t.Names()
	for _, n := range names {
		d, _ := t.Property(n)
		if d.Kind != KindComponent {
			continue
		}
		childArgs := append([]any{c, d, n}, args...)
		child, err := construct(d.Component, c, d, n, childArgs)
		if err != nil {
			return nil, err
		}
		c.components[n] = child
	}

	for _, n := range names {
		d, _ := t.Property(n)
		if d.Init == nil {
			continue
		}
		if err := d.Init(c, args...); err != nil {
			return nil, errors.New("DC008").WithDetailf("%s.%s init", t.name, n).Wrap(err)
		}
	}

	chain := t.Ancestors()
	for i := len(chain) - 1; i >= 0; i-- {
		for _, fn := range chain[i].init {
			if err := fn(c, args...); err != nil {
				return nil, errors.New("DC008").WithDetailf("%s initializer", chain[i].name).Wrap(err)
			}
		}
	}

	return c, nil
}

// Type returns the context's type.
func (c *Context) Type() *Type {
	return c.typ
}

// Parent returns the owning context of a component, or nil.
func (c *Context) Parent() *Context {
	return c.parent
}

// Name returns the property name under which c is owned, or "" for roots.
func (c *Context) Name() string {
	return c.name
}

// Properties returns every property descriptor of the context's type.
func (c *Context) Properties() map[string]*Descriptor {
	return c.typ.Properties()
}

// Property returns the descriptor of name.
func (c *Context) Property(name string) (*Descriptor, bool) {
	return c.typ.Property(name)
}

// Names returns the declared property names in declaration order.
func (c *Context) Names() []string {
	return c.typ.Names()
}

// Get returns the value of name, or nil for unknown names. Commands and
// components are returned as *command.Command and *Context.
func (c *Context) Get(name string) any {
	v, _ := c.Lookup(name)
	return v
}

// Lookup is like Get but reports whether name is declared.
func (c *Context) Lookup(name string) (any, bool) {
	d, ok := c.Property(name)
	if !ok {
		return nil, false
	}
	switch d.Kind {
	case KindCommand:
		return c.Command(name), true
	case KindComponent:
		return c.components[name], true
	}
	return c.read(d), true
}

func (c *Context) read(d *Descriptor) any {
	if d.Get != nil {
		return d.Get(c)
	}
	if v, ok := c.slots[d.Name]; ok {
		return v
	}
	return c.defaultOf(d)
}

func (c *Context) defaultOf(d *Descriptor) any {
	if d.Lazy != nil {
		return d.Lazy(c)
	}
	return d.Default
}

// Default returns the default value of a plain property.
func (c *Context) Default(name string) any {
	d, ok := c.Property(name)
	if !ok || d.Kind != KindPlain {
		return nil
	}
	return c.defaultOf(d)
}

// Set writes a plain property. Declared validators run first and record
// their failures in the collector; the value is stored either way. For
// properties with validators or a custom setter the key's previous errors
// are cleared first. A change notification fires when the value read back
// differs from the old one.
func (c *Context) Set(name string, v any) error {
	d, ok := c.Property(name)
	if !ok {
		return errors.New("DC006").WithDetailf("%s.%s", c.typ.name, name).Wrap(ErrUnknownProperty)
	}
	if !d.Writable {
		return errors.New("DC007").WithDetailf("%s.%s (%s)", c.typ.name, name, d.Kind).Wrap(ErrReadOnly)
	}
	c.write(d, v)
	return nil
}

func (c *Context) write(d *Descriptor, v any) {
	// Validators and custom setters re-record the key on every write.
	if d.Set != nil || d.HasValidation() {
		c.errs.Clear(d.Name)
	}
	c.runValidators(d, v)

	old := c.read(d)
	if d.Set != nil {
		if err := d.Set(c, v); err != nil {
			c.errs.Add(d.Name, err)
		}
		v = d.Get(c)
	} else {
		c.slots[d.Name] = v
	}

	if !equal(old, v) {
		c.FirePropertyChange(d.Name, v, old)
	}
}

func (c *Context) runValidators(d *Descriptor, v any) {
	if !d.HasValidation() {
		return
	}
	chk := c.errs.Check(d.Name, v).Use(d.Validators...)
	for _, tag := range d.Rules {
		chk.Tag(tag)
	}
	if !chk.Valid() {
		c.cfg.Recorder.ValidationFailed(c.typ.name, d.Name)
	}
}

// Reset assigns every writable property its value in data, or its default
// when absent. Components are reset recursively with the nested map found
// under their name. Commands are untouched.
func (c *Context) Reset(data map[string]any) {
	for _, name := range c.Names() {
		d, _ := c.Property(name)
		switch {
		case d.Kind == KindComponent:
			nested, _ := data[name].(map[string]any)
			c.components[name].Reset(nested)
		case d.Writable:
			if v, ok := data[name]; ok {
				c.write(d, v)
			} else {
				c.write(d, c.defaultOf(d))
			}
		}
	}
}

// PutAll assigns the writable properties present in data and leaves the
// rest unchanged. Components present in data as a nested map receive it
// through their own PutAll.
func (c *Context) PutAll(data map[string]any) {
	for _, name := range c.Names() {
		v, ok := data[name]
		if !ok {
			continue
		}
		d, _ := c.Property(name)
		switch {
		case d.Kind == KindComponent:
			if nested, ok := v.(map[string]any); ok {
				c.components[name].PutAll(nested)
			}
		case d.Writable:
			c.write(d, v)
		}
	}
}

// Command returns the command declared as name, creating it on first use.
// It returns nil if name is not a command.
func (c *Context) Command(name string) *command.Command {
	if cmd, ok := c.commands[name]; ok {
		return cmd
	}
	d, ok := c.Property(name)
	if !ok || d.Kind != KindCommand {
		return nil
	}

	opts := append(c.cfg.commandOptions(),
		command.WithName(name),
		command.WithCondition(d.CanExecute),
		command.WithSelf(c),
		command.WithModifiers(d.Modifiers...),
	)
	cmd, err := command.New(d.Execute, opts...)
	if err != nil {
		// Declarations are checked by constructing the same command.
		panic(fmt.Sprintf("datactx: command %s.%s: %v", c.typ.name, name, err))
	}

	cmd.Subscribe(func(command.Event) {
		c.FirePropertyChange(name, cmd, cmd)
	})
	c.commands[name] = cmd
	return cmd
}

// Component returns the child context declared as name, or nil.
func (c *Context) Component(name string) *Context {
	return c.components[name]
}

// RunningCommands returns the commands that are currently running, in
// declaration order. Commands never accessed are not running.
func (c *Context) RunningCommands() []*command.Command {
	var out []*command.Command
	for _, name := range c.Names() {
		if cmd, ok := c.commands[name]; ok && cmd.IsRunning() {
			out = append(out, cmd)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (c *Context) String() string {
	if c.parent != nil {
		return fmt.Sprintf("%s(%s.%s)", c.typ.name, c.parent.typ.name, c.name)
	}
	return c.typ.name
}

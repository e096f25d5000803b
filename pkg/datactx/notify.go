package datactx

import "reflect"

// Listener observes property changes. For dependent re-fires and command
// lifecycle events newValue and oldValue are the same current value.
type Listener interface {
	PropertyChanged(newValue any, name string, oldValue any)
}

// ListenerFunc adapts a function to Listener.
//
// Function values cannot be compared, so attaching the same ListenerFunc
// twice creates two subscriptions.
type ListenerFunc func(newValue any, name string, oldValue any)

// PropertyChanged calls f.
func (f ListenerFunc) PropertyChanged(newValue any, name string, oldValue any) {
	f(newValue, name, oldValue)
}

// Subscription is the token returned by Attach and On.
type Subscription struct {
	ctx      *Context
	listener Listener
	names    []string
	active   bool
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Listener returns the subscribed listener.
func (s *Subscription) Listener() Listener {
	return s.listener
}

// Detach unsubscribes s from its context. See Context.Detach.
func (s *Subscription) Detach() bool {
	if s == nil || s.ctx == nil {
		return false
	}
	return s.ctx.Detach(s)
}

// Attach subscribes l to every declared property. Attaching a listener
// that is already attached logs a warning and returns the existing
// subscription.
func (c *Context) Attach(l Listener) *Subscription {
	if l == nil {
		return nil
	}
	for _, s := range c.attached {
		if sameListener(s.listener, l) {
			c.logger.Warn("listener already attached", "context", c.String())
			return s
		}
	}

	s := &Subscription{ctx: c, listener: l, names: c.Names(), active: true}
	c.subscribe(s)
	c.attached = append(c.attached, s)
	return s
}

// On subscribes l to a single property.
func (c *Context) On(name string, l Listener) *Subscription {
	if l == nil {
		return nil
	}
	s := &Subscription{ctx: c, listener: l, names: []string{name}, active: true}
	c.subscribe(s)
	return s
}

// Detach removes s from every property it was subscribed to. It reports
// false if s was already detached or belongs to another context.
func (c *Context) Detach(s *Subscription) bool {
	if s == nil || !s.active || s.ctx != c {
		return false
	}
	s.active = false

	for _, name := range s.names {
		c.subs[name] = removeSub(c.subs[name], s)
		if len(c.subs[name]) == 0 {
			delete(c.subs, name)
		}
	}
	c.attached = removeSub(c.attached, s)
	return true
}

func (c *Context) subscribe(s *Subscription) {
	for _, name := range s.names {
		c.subs[name] = append(c.subs[name], s)
	}
}

func removeSub(subs []*Subscription, s *Subscription) []*Subscription {
	for i, existing := range subs {
		if existing == s {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// FirePropertyChange notifies the subscribers of name. It is a no-op while
// the context is validating.
//
// After the subscribers of name, each dependent property is re-fired with
// its current value as both new and old, recursively; a property is fired
// at most once per call. Finally the parent context, if any, is told that
// the component owning c changed.
func (c *Context) FirePropertyChange(name string, newValue, oldValue any) {
	if c.validating {
		return
	}
	c.cfg.Recorder.PropertyChanged(c.typ.name, name)
	c.fire(name, newValue, oldValue, make(map[string]bool))

	if c.parent != nil {
		c.parent.FirePropertyChange(c.name, c, c)
	}
}

func (c *Context) fire(name string, newValue, oldValue any, visited map[string]bool) {
	visited[name] = true
	c.notify(name, newValue, oldValue)

	d, ok := c.Property(name)
	if !ok {
		return
	}
	for _, dep := range d.Dependent {
		if visited[dep] {
			continue
		}
		v := c.Get(dep)
		c.fire(dep, v, v, visited)
	}
}

func (c *Context) notify(name string, newValue, oldValue any) {
	subs := c.subs[name]
	if len(subs) == 0 {
		return
	}
	// Listeners may detach during notification.
	snapshot := make([]*Subscription, len(subs))
	copy(snapshot, subs)

	for _, s := range snapshot {
		if s.active {
			s.listener.PropertyChanged(newValue, name, oldValue)
		}
	}
}

// sameListener reports a == b. Listeners that cannot be compared, such as
// funcs or structs holding one in an interface field, are never the same.
func sameListener(a, b Listener) (same bool) {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// equal compares with == when the dynamic type allows it and falls back
// to reflect.DeepEqual otherwise.
func equal(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	// Structs holding uncomparable interface values still panic on ==.
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

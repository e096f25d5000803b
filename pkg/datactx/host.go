package datactx

// Host is implemented by view adapters that render a data context.
type Host interface {
	// DataContext returns the context to observe. It may return nil.
	DataContext() *Context

	// Render receives a fresh projection after every change.
	Render(state map[string]any)
}

// Binding keeps a Host's rendered state in sync with its data context.
// Adapters embed or hold a Binding instead of re-implementing subscription
// bookkeeping.
type Binding struct {
	host  Host
	ctx   *Context
	sub   *Subscription
	state map[string]any
}

// Bind attaches to the host's data context and renders once.
func Bind(h Host) *Binding {
	b := &Binding{host: h}
	b.Rebind()
	if b.state == nil {
		b.Refresh()
	}
	return b
}

// PropertyChanged implements Listener.
func (b *Binding) PropertyChanged(any, string, any) {
	b.Refresh()
}

// Refresh recomputes the projection and renders it.
func (b *Binding) Refresh() {
	if b.ctx == nil {
		b.state = map[string]any{}
	} else {
		b.state = b.ctx.Describe()
	}
	b.host.Render(b.state)
}

// Rebind switches to the host's current data context if it changed.
func (b *Binding) Rebind() {
	ctx := b.host.DataContext()
	if ctx == b.ctx && (ctx == nil || b.sub.Active()) {
		return
	}
	if b.sub != nil {
		b.sub.Detach()
		b.sub = nil
	}
	b.ctx = ctx
	if ctx != nil {
		b.sub = ctx.Attach(b)
	}
	b.Refresh()
}

// State returns the last rendered projection.
func (b *Binding) State() map[string]any {
	return b.state
}

// Context returns the observed context.
func (b *Binding) Context() *Context {
	return b.ctx
}

// Close detaches from the context. It reports false if already closed.
func (b *Binding) Close() bool {
	if b.sub == nil {
		return false
	}
	ok := b.sub.Detach()
	b.sub = nil
	return ok
}

package datactx

// Field is a typed handle on a plain property.
//
//	var Name = datactx.NewField[string]("name")
//
//	Name.Set(ctx, "Bob")
//	greeting := "hi " + Name.Get(ctx)
type Field[T any] struct {
	name string
}

// NewField returns a handle on the property called name.
func NewField[T any](name string) Field[T] {
	return Field[T]{name: name}
}

// Name returns the property name.
func (f Field[T]) Name() string {
	return f.name
}

// Get returns the property value, or the zero T if the value is nil or of
// another type.
func (f Field[T]) Get(c *Context) T {
	v, _ := c.Get(f.name).(T)
	return v
}

// Lookup is like Get but reports whether the value held a T.
func (f Field[T]) Lookup(c *Context) (T, bool) {
	v, ok := c.Get(f.name).(T)
	return v, ok
}

// Set writes the property. See Context.Set.
func (f Field[T]) Set(c *Context, v T) error {
	return c.Set(f.name, v)
}

// Declare returns a declaration of the property with d.
func (f Field[T]) Declare(d Decl) Declaration {
	return Declaration{Name: f.name, Decl: d}
}

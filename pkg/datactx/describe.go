package datactx

// Describe returns the merged projection of every property of c.
func (c *Context) Describe() map[string]any {
	out := make(map[string]any)
	for _, name := range c.Names() {
		d, _ := c.Property(name)
		for k, v := range d.Project(c) {
			out[k] = v
		}
	}
	return out
}

// DescribePlain is the default projection of a plain property:
// {key: value, key+"Errors": []string}.
func DescribePlain(c *Context, key string) map[string]any {
	return map[string]any{
		key:            c.Get(key),
		key + "Errors": nonNil(c.Errors(key)),
	}
}

// DescribeCommand is the default projection of a command:
// {key: {"isRunning", "canExecute", "error"}}. error is the message of the
// last failed run, or nil.
func DescribeCommand(c *Context, key string) map[string]any {
	cmd := c.Command(key)
	if cmd == nil {
		return map[string]any{key: nil}
	}
	var errMsg any
	if err := cmd.Err(); err != nil {
		errMsg = err.Error()
	}
	return map[string]any{
		key: map[string]any{
			"isRunning":  cmd.IsRunning(),
			"canExecute": cmd.CanExecute(),
			"error":      errMsg,
		},
	}
}

// DescribeComponent is the default projection of a component:
// {key: child projection, key+"Errors": every error of the child}.
func DescribeComponent(c *Context, key string) map[string]any {
	child := c.Component(key)
	if child == nil {
		return map[string]any{key: nil}
	}
	return map[string]any{
		key:            child.Describe(),
		key + "Errors": nonNil(child.AllErrors()),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Package datactx provides observable data contexts: typed bags of
// properties, commands and nested components that notify listeners on
// change and collect validation errors.
//
// Types are declared once in a Registry and may derive from each other:
//
//	reg := datactx.NewRegistry(datactx.WithScheduler(l))
//	person := reg.MustNewType("Person", nil).MustDeclare(
//	    datactx.Property("name", datactx.Decl{
//	        Default:   "",
//	        Rules:     []string{"required"},
//	        Dependent: []string{"greet"},
//	    }),
//	    datactx.Property("greet", datactx.Decl{
//	        Execute: func(self any, _ ...any) (command.Outcome, error) {
//	            c := self.(*datactx.Context)
//	            return command.Immediate("hi " + c.Get("name").(string)), nil
//	        },
//	        CanExecute: func(self any, _ ...any) bool {
//	            return self.(*datactx.Context).Get("name") != ""
//	        },
//	    }),
//	)
//
//	ctx := person.MustNew()
//	ctx.Attach(datactx.ListenerFunc(func(v any, name string, old any) { ... }))
//	ctx.Set("name", "Bob")
//	res, _ := ctx.Command("greet").Execute()
//
// # Classification
//
// A declaration with Execute or CanExecute is a command, one with Component
// is an owned child context, anything else is a plain property. A derived
// type's declaration is merged field by field over its ancestors'. Declaring
// a command over a plain property or component is rejected.
//
// # Notifications
//
// Writes fire a change when the value actually changed. Dependent
// properties are then re-fired with their current value, and the change
// bubbles to the parent context as a change of the component's name.
// Command lifecycle events are reported as changes of the command's name.
// Nothing fires while Validate runs; afterwards only the properties whose
// validity changed are re-fired.
//
// # Threading
//
// A Context is single-threaded. Asynchronous command work re-enters through
// the registry's scheduler. Unless WithScheduler is given, the registry owns
// a *loop.Loop; commands stay running until it is driven:
//
//	go reg.Loop().Run(ctx)
package datactx

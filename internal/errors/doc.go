// Package errors provides coded, structured errors for datacontext.
//
// Every configuration or guard failure raised by the framework carries a
// stable code (e.g. "DC004") that maps to a registered template:
//   - A short message describing the error
//   - A detailed explanation
//   - A hint on how to fix it
//
// # Error Categories
//
//   - config: declaration and construction mistakes (fail fast)
//   - guard: calling a command whose guard is false
//   - runtime: action failures captured into results
//   - validation: user input errors collected per key
//
// # Usage
//
//	err := errors.New("DC004").
//	    WithDetail(`property "save" on type "Form"`).
//	    Wrap(ErrCommandOverride)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR DC004: Cannot override a property with a command
//	//
//	//   property "save" on type "Form"
//	//
//	//   Hint: Rename the command or declare it as a plain property.
package errors

// Package dctest provides testing helpers for data contexts.
//
// It reduces boilerplate when testing types declared with package datactx:
// a fluent builder creates and seeds contexts, a Recorder captures change
// notifications, and Expect helpers assert on state and validation.
//
// # Quick Start
//
//	func TestSignup(t *testing.T) {
//	    c := dctest.New(signupType).With("email", "a@b.co").Build(t)
//	    rec := dctest.Watch(c)
//
//	    c.Set("email", "")
//	    dctest.ExpectFired(t, rec, "email")
//	    dctest.ExpectErrors(t, c, "email", "Email is required")
//	}
//
// # Watching a Subset
//
// Watch with names subscribes only to those properties:
//
//	rec := dctest.Watch(c, "name", "greeting")
package dctest

// Package command provides guarded asynchronous actions with run-state.
//
// A Command bundles an action, an optional guard condition, running state
// and an in-flight Result into one unit that a view layer can bind to:
//
//	save, _ := command.New(
//	    func(self any, args ...any) (command.Outcome, error) {
//	        return command.Async(ctx, func(ctx context.Context) (any, error) {
//	            return api.Save(ctx, args[0])
//	        }), nil
//	    },
//	    command.WithName("save"),
//	    command.WithCondition(func(self any, args ...any) bool { return len(args) == 1 }),
//	    command.WithModifiers(command.Debounce(300*time.Millisecond)),
//	)
//
//	res, err := save.Execute(profile) // err != nil when the guard fails
//	v, err := res.Wait(ctx)
//
// # Outcomes
//
// An action returns an Outcome, which is either Immediate(value) or
// Pending(result). Returning an error (or panicking) yields an already
// rejected result; the failure is logged and never returned from Execute.
//
// # Run State
//
// Execute marks the command running and emits EventStarted. Once the
// in-flight result settles, finalisation is posted to the Scheduler: the
// running flag is cleared, then EventCanExecute and EventFinished fire.
// Callers therefore always observe the pending result before the command
// returns to idle. Without WithScheduler each command owns a *loop.Loop,
// available through Scheduler, that must be drained for it to go idle.
//
// # Modifiers
//
// Modifiers rewrite the action or condition at construction time. They are
// looked up by name in a Registry and applied in order; unknown names are
// ignored. Built-ins are "debounce" and "once".
package command

// Package loop provides the single-threaded scheduler that data contexts and
// commands run on.
//
// All property writes, change notifications and command state transitions
// happen on one logical thread. Work that finishes elsewhere (goroutines,
// timers) re-enters through Post, which is the only method safe to call
// from any goroutine.
//
//	l := loop.New()
//	go func() {
//	    user, err := api.Fetch(ctx)
//	    l.Post(func() { ... apply user/err ... })
//	}()
//	l.Run(ctx)
//
// Tests usually drive the loop by hand with Drain, or with RunUntil when a
// result completes on another goroutine.
package loop

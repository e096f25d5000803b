package command

import "errors"

// ErrCannotExecute is returned by Execute when CanExecute is false.
var ErrCannotExecute = errors.New("command: cannot execute now")

// ErrMissingAction is returned by New when no action is configured.
var ErrMissingAction = errors.New("command: missing action")

// ErrAborted rejects a result whose work was cancelled through Abort.
var ErrAborted = errors.New("command: aborted")

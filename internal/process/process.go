// Package process terminates browser process trees left behind by a
// renderer.
package process

import "errors"

// ErrInvalidPID indicates a PID that cannot name a process tree.
var ErrInvalidPID = errors.New("invalid process id")

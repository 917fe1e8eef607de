package confirm

import "errors"

// ErrAborted signals the user aborted the prompt (e.g., Ctrl+C).
var ErrAborted = errors.New("confirm: aborted")

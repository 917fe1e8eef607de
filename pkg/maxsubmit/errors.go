package maxsubmit

import "errors"

// ErrUnknownRadioScope is returned by ParseRadioScope for unrecognised values.
var ErrUnknownRadioScope = errors.New("maxsubmit: unknown radio scope")

//go:build js

package confirm

import (
	"context"
	"syscall/js"
)

// Default returns the prompter used when none is configured: the browser's
// blocking window.confirm dialog.
func Default() Prompter {
	return Func(func(_ context.Context, message string) (bool, error) {
		return js.Global().Call("confirm", PlainText(message)).Truthy(), nil
	})
}

package confirm

import "context"

// Prompter asks the user a yes/no question and blocks until they answer.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Func adapts a plain function to Prompter.
type Func func(ctx context.Context, message string) (bool, error)

// Confirm implements Prompter.
func (f Func) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f(ctx, message)
}

// Static always answers with the given value. Useful for --yes style flags.
func Static(answer bool) Prompter {
	return Func(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

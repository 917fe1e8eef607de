//go:build !js

package confirm

// Default returns the prompter used when none is configured: a terminal
// prompt.
func Default() Prompter {
	return NewSurvey()
}

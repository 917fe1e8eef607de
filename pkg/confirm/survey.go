//go:build !js

package confirm

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// SurveyOption configures a Survey prompter.
type SurveyOption func(*Survey)

// WithDefault sets the answer preselected in the prompt.
func WithDefault(answer bool) SurveyOption {
	return func(s *Survey) {
		s.defaultAnswer = answer
	}
}

// WithHelp sets the help text shown when the user types '?'.
func WithHelp(help string) SurveyOption {
	return func(s *Survey) {
		s.help = strings.TrimSpace(help)
	}
}

// WithAskOptions forwards options to survey, e.g. survey.WithStdio.
func WithAskOptions(opts ...survey.AskOpt) SurveyOption {
	return func(s *Survey) {
		s.askOpts = append(s.askOpts, opts...)
	}
}

// Survey is a terminal Prompter. Markup in messages is stripped before
// display so templates authored for HTML dialogs still read cleanly.
type Survey struct {
	defaultAnswer bool
	help          string
	askOpts       []survey.AskOpt
}

// NewSurvey constructs a terminal prompter. The default answer is "no".
func NewSurvey(options ...SurveyOption) *Survey {
	s := &Survey{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Confirm implements Prompter.
func (s *Survey) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: PlainText(message),
		Default: s.defaultAnswer,
		Help:    s.help,
	}
	if err := survey.AskOne(prompt, &out, s.askOpts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

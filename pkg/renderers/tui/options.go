package tui

import (
	"io"

	"go.uber.org/zap"
)

// SkipOption lets single-choice prompts leave the stored answer untouched.
const SkipOption = "(skip)"

// OtherRecipientOption is the picker entry for a custom recipient address.
const OtherRecipientOption = "Other (enter address)"

// Theme captures optional message prefixes applied to info lines.
type Theme struct {
	SectionPrefix string
	InfoPrefix    string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	SectionPrefix: "== ",
	InfoPrefix:    "",
	ErrorPrefix:   "! ",
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput directs info lines of the default survey driver to out.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithSections restricts the walk to the listed section ids. Repeatable
// sections can be addressed by their group name ("hotel", "transport").
func WithSections(ids ...string) Option {
	return func(r *Runner) {
		for _, id := range ids {
			if id != "" {
				r.sections[id] = true
			}
		}
	}
}

// WithSubmit controls whether the walk ends with the recipient picker and
// the submit confirmation.
func WithSubmit(enabled bool) Option {
	return func(r *Runner) {
		r.submit = enabled
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

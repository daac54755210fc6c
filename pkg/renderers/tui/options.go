package tui

import "github.com/goliatone/go-formbind/pkg/widgets"

// Theme captures optional prefixes the editor applies to informational
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithWidgets overrides the registry used to pick prompt styles.
func WithWidgets(registry *widgets.Registry) Option {
	return func(e *Editor) {
		if registry != nil {
			e.widgets = registry
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithMaxAttempts bounds how often an invalid answer is re-prompted. Values
// below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

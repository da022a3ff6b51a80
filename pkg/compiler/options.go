package compiler

// Options holds configuration settings for the Compiler.
type Options struct {
	OnWarning WarningFunc
}

// WarningFunc handles warning messages as the pipeline produces them.
type WarningFunc func(warning string)

// Option is a functional option for configuring the Compiler.
type Option func(*Options)

func defaultOptions() Options {
	return Options{}
}

func (o Options) notify(warning string) {
	if o.OnWarning != nil {
		o.OnWarning(warning)
	}
}

// WithWarningHandler sets a custom handler for warning messages.
func WithWarningHandler(fn WarningFunc) Option {
	return func(o *Options) {
		o.OnWarning = fn
	}
}

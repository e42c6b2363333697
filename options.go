package tomlconfig

// Option configures a single load.
type Option func(*options)

type options struct {
	file          string
	overlayDir    string
	ignoreMissing bool
	format        Format
	logger        Logger
	onReload      func(old, new any)
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFile sets the base document path.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithOverlayDir sets a drop-in directory. Its immediate regular files are
// applied after the base document, in lexicographic filename order, so later
// files extend lists, update dicts, and overwrite everything else.
func WithOverlayDir(path string) Option {
	return func(o *options) {
		o.overlayDir = path
	}
}

// IgnoreMissing makes the loader treat an absent base file or overlay
// directory as an empty document instead of failing. It never relaxes
// schema strictness: unknown keys still fail the load.
func IgnoreMissing() Option {
	return func(o *options) {
		o.ignoreMissing = true
	}
}

// WithFormat forces a document format for every file instead of picking one
// per file extension.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithLogger sets a logger for per-file debug output.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithOnReload sets a callback invoked by Loader after a successful reload.
// It receives the previous and the new instance.
func WithOnReload(fn func(old, new any)) Option {
	return func(o *options) {
		o.onReload = fn
	}
}

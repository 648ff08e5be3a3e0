package profile

// Profiler configures a single profiling session.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Start begins profiling and returns a [Stopper] that flushes the profile.
//
// If the pprof build tag or p.Mode is unset, Start returns a no-op.
// Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling was compiled in and p names a known mode.
func (p Profiler) Enabled() bool {
	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Profiler) Profiler {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Profiler) Profiler {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Profiler) Profiler {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Make returns a Profiler built from opts.
func Make(opts ...func(Profiler) Profiler) Profiler {
	var p Profiler

	for _, opt := range opts {
		if opt != nil {
			p = opt(p)
		}
	}

	return p
}

type ignore struct{}

func (ignore) Stop() {}

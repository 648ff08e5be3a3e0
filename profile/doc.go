// Package profile starts optional runtime profiling for brickc.
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Profiler.Start] returns a no-op and [Modes] is empty, so callers never need
// to guard their use of this package.
//
// # Modes
//
// With the pprof tag, [Modes] reports the accepted profiling modes:
//
//	allocs block clock cpu goroutine heap mem mutex thread trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: dir}
//	defer p.Start().Stop()
//
// Profile data is written to Path with a name matching the mode (cpu.pprof,
// mem.pprof, ...). Analyze it with go tool pprof:
//
//	go tool pprof -http=: ./brickc cpu.pprof
//
// The pprof build also imports [net/http/pprof], which registers handlers
// under /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

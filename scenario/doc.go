// Package scenario runs golden generator tests written in Markdown.
//
// A scenario starts at a heading whose text begins with "Test: ". It holds
// one input fence with the workspace document (language "yaml" or "json"),
// an optional "options" fence, and one or more assertion fences:
//
//   - "nqc": the exact generated program;
//   - "warnings": validator findings, one per line, as "#id kind: warning";
//   - "diagnostics": generator diagnostics, one per line;
//   - "error": a substring of the expected generation error.
//
// Fences without a language are prose and are ignored.
package scenario

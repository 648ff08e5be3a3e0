// Package preview implements an interactive terminal view of a generated
// program.
//
// The view shows the program in a scrollable pane above the validator
// findings and generator diagnostics. Typing "/" opens a fuzzy search over
// task and subroutine names; Enter scrolls to the match. "r" reloads the
// workspace document from disk.
package preview

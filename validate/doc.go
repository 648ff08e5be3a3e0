// Package validate enforces the structural rules of a block workspace.
//
// A [Validator] attached to a [block.Workspace] re-checks every constrained
// node after each mutation. Nodes that break a rule are disabled and carry a
// warning; nodes that satisfy their rules again are re-enabled, but only when
// the validator disabled them in the first place.
//
// The rules are:
//
//   - only the first task_main node, in creation order, stays enabled;
//   - task and sub nodes need a name;
//   - a task or sub node may not reuse the name of an earlier enabled node of
//     the same kind.
package validate

// Package block models a visual block program as an arena of nodes.
//
// A [Workspace] owns every [Node]. Nodes refer to each other through stable
// [ID] handles: value slots (inputs) hold one value node, statement slots hold
// the head of a statement chain, and a node's next link continues its chain.
// The zero ID means "not connected".
//
// The set of node kinds is closed. [Lookup] returns the [Spec] of a kind:
// its [Role], the fields it carries, and the type of each slot. Creating a
// node of an unknown kind fails with [ErrUnknownKind], whose message lists the
// closest registered kinds.
//
// Every mutation publishes an [Event] to the functions registered with
// [Workspace.Subscribe]. Handlers run synchronously, in subscription order.
//
// Workspaces round-trip through YAML and JSON documents with [Decode],
// [Workspace.EncodeYAML] and [Workspace.EncodeJSON].
package block

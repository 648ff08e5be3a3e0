package block

import (
	"github.com/ardnew/brickc/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrUnknownKind  = pkg.NewError("unknown block kind")
	ErrUnknownNode  = pkg.NewError("unknown node")
	ErrUnknownSlot  = pkg.NewError("unknown slot")
	ErrUnknownField = pkg.NewError("unknown field")
	ErrAttached     = pkg.NewError("node already attached")
	ErrCycle        = pkg.NewError("connection would create a cycle")
	ErrRootChain    = pkg.NewError("subprogram blocks cannot be chained")
	ErrDecode       = pkg.NewError("invalid workspace document")
	ErrEncode       = pkg.NewError("failed to encode workspace")
)

package codegen

import (
	"github.com/ardnew/brickc/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrUnrenderable  = pkg.NewError("unrenderable node")
	ErrReservedName  = pkg.NewError("reserved name")
	ErrNameCollision = pkg.NewError("distinct names map to one identifier")
	ErrScopeNested   = pkg.NewError("scope already open")
	ErrScopeClosed   = pkg.NewError("no scope open")
	ErrCanceled      = pkg.NewError("generation canceled")
)

package scenario

import (
	"github.com/ardnew/brickc/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrMalformed = pkg.NewError("malformed scenario")
	ErrOptions   = pkg.NewError("invalid scenario options")
)

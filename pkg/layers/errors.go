package layers

import "errors"

// ErrMalformedTree indicates a cycle was found in the layer tree. The host
// guarantees an acyclic tree; a broken view fails instead of looping forever.
var ErrMalformedTree = errors.New("malformed layer tree")

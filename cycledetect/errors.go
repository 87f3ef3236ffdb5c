package cycledetect

import "errors"

// ErrNoCycles is returned by Resolve when the graph is currently acyclic:
// there is no weakest link to surface because nothing is inconsistent.
var ErrNoCycles = errors.New("cycledetect: no cycles to resolve")

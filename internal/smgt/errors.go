// Package smgt implements the Stable-Matching Game Theory assignment
// phase: per-level deferred-acceptance matching between tasks
// (proposers) and VMs (acceptors) under per-(VM, level) quotas,
// followed by pre-schedule emission (VM task order, AST, AFT).
package smgt

import "errors"

// ErrInsufficientQuota indicates a level's quota sum would fall short
// of its population. Per DESIGN.md, Quota always clamps the top VM's
// quota to avoid this; the sentinel is kept for the (currently
// unreachable outside of a caller-supplied degenerate quota function)
// strict-mode path MatchLevel guards with.
var ErrInsufficientQuota = errors.New("smgt: insufficient quota for level")

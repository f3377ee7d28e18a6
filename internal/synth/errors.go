package synth

import (
	"fmt"

	"github.com/vk/tensorgridgo/internal/stage"
)

// FusionConflictError reports two stages declaring fusion into the same
// target. Fusing two non-trivial computations into one root is a contract
// violation of the annotation pass; synthesis never overwrites the first
// claim silently.
type FusionConflictError struct {
	Target   string
	Existing string
	Incoming string
}

// Error implements the error interface.
func (e *FusionConflictError) Error() string {
	return fmt.Sprintf("fusion conflict: stages '%s' and '%s' both fuse into '%s'",
		e.Existing, e.Incoming, e.Target)
}

// UnimplementedClassificationError reports a stage carrying a recognized but
// unsupported compute-at classification (currently: tune).
type UnimplementedClassificationError struct {
	Stage          string
	Classification stage.ComputeAt
}

// Error implements the error interface.
func (e *UnimplementedClassificationError) Error() string {
	return fmt.Sprintf("compute-at classification '%s' on stage '%s' is not implemented",
		e.Classification, e.Stage)
}

// UnknownKindError reports a master stage whose kind matches no scheduling
// strategy. The kind enumeration is closed, so this indicates a broken
// invariant upstream, not a user error.
type UnknownKindError struct {
	Stage string
	Kind  stage.Kind
}

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no scheduling strategy for kind %d of stage '%s'", e.Kind, e.Stage)
}

package generator

import (
	"github.com/ironclad/converge/pkg/types"
)

// ScriptGenerator turns a resolved resource into the two scripts the
// executor needs: one that converges the resource, one that queries
// its current observable state.
type ScriptGenerator interface {
	ApplyScript(r types.ResolvedResource) (string, error)
	StateQueryScript(r types.ResolvedResource) (string, error)
}

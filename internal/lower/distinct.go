package lower

import "github.com/tinqerjs-org/tinqer-sub004/internal/ir"

// LowerDistinct wraps source in a Distinct operation. No lambda is
// involved; DISTINCT applies to whatever the current projection already
// produces.
func LowerDistinct(source ir.Operation) *ir.Distinct {
	return ir.NewDistinct(source)
}

package implicit

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/tsize"
)

// JacobianBlock is one df<row>_dd<column> view into the full Jacobian
// matrix (spec.md §4.5), sized by the row/column variables' shapes.
type JacobianBlock struct {
	Row        *behaviour.Variable
	Column     *behaviour.Variable
	Symbol     string // e.g. "dfeel_ddeel"
	Size       tsize.Size
	Numerical  bool // computed by central difference rather than analytically
}

// BuildJacobianBlocks enumerates every (row, column) block of the full
// N x N Jacobian over vars, marking a row's blocks Numerical when the row
// variable's name is present in numericalRows (set via
// @NumericallyComputedJacobianBlocks).
func BuildJacobianBlocks(vars behaviour.List, numericalRows map[string]bool) []JacobianBlock {
	var blocks []JacobianBlock
	for _, row := range vars {
		for _, col := range vars {
			blocks = append(blocks, JacobianBlock{
				Row:       row,
				Column:    col,
				Symbol:    BlockSymbol(row, col),
				Size:      tsize.DerivativeSize(tsize.OfType(row.Type).Scale(row.ArraySize), tsize.OfType(col.Type).Scale(col.ArraySize)),
				Numerical: numericalRows[row.Name],
			})
		}
	}
	return blocks
}

// BlockSymbol names a Jacobian block the way the generated code would
// reference it: "df<row>_dd<column>" (spec.md §4.5).
func BlockSymbol(row, col *behaviour.Variable) string {
	return io.Sf("df%s_dd%s", row.Name, col.Name)
}

// HasNumericalBlock reports whether any block is flagged Numerical, the
// condition under which the generator must emit a mixed analytic/numerical
// Jacobian assembly rather than a purely analytic one.
func HasNumericalBlock(blocks []JacobianBlock) bool {
	for _, b := range blocks {
		if b.Numerical {
			return true
		}
	}
	return false
}

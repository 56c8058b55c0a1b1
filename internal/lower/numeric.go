package lower

import "github.com/shopspring/decimal"

// negateDecimal negates v if it is a decimal.Decimal, reporting whether the
// type matched.
func negateDecimal(v any) (any, bool) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return nil, false
	}
	return d.Neg(), true
}

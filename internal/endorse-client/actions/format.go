package actions

import "math/big"

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

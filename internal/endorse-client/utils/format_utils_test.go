package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUnitsTrim(t *testing.T) {
	for _, tc := range []struct {
		amount  string
		maxFrac int
		want    string
	}{
		{amount: "1234500000000000000", maxFrac: 6, want: "1.2345"},
		{amount: "1000000000000000000", maxFrac: 6, want: "1"},
		{amount: "1", maxFrac: 18, want: "0.000000000000000001"},
		{amount: "1", maxFrac: 6, want: "0"},
		{amount: "0", maxFrac: 6, want: "0"},
		{amount: "2500000000000000000", maxFrac: 0, want: "2"},
	} {
		v, _ := new(big.Int).SetString(tc.amount, 10)
		assert.Equal(t, tc.want, FormatUnitsTrim(v, 18, tc.maxFrac), tc.amount)
	}
	assert.Equal(t, "0", FormatUnitsTrim(nil, 18, 4))
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "0.5", FormatWei("500000000000000000", 4))
	assert.Equal(t, "garbage", FormatWei("garbage", 4))
}

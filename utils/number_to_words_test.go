package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	cases := map[int64]string{
		7:        "Seven",
		42:       "Forty Two",
		100:      "One Hundred",
		1180:     "One Thousand One Hundred Eighty",
		250000:   "Two Lakh Fifty Thousand",
		12000000: "One Crore Twenty Lakh",
	}
	for n, want := range cases {
		assert.Equal(t, want, NumberToWords(n), "n=%d", n)
	}
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "One Thousand One Hundred Eighty Rupees Only", AmountInWords(1180))
	assert.Equal(t, "Twelve Rupees and Fifty Paise Only", AmountInWords(12.5))
	assert.Equal(t, "Zero Rupees Only", AmountInWords(0))
}

package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Indian grouping: crore, lakh, thousand, hundred.
var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells a non-negative whole number with Indian grouping.
func NumberToWords(num int64) string {
	if num <= 0 {
		return ""
	}
	if num < 20 {
		return ones[num]
	}
	if num < 100 {
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	}
	for _, sc := range scales {
		if num < sc.size {
			continue
		}
		head := NumberToWords(num/sc.size) + " " + sc.name
		if rest := num % sc.size; rest != 0 {
			return head + " " + NumberToWords(rest)
		}
		return head
	}
	return ""
}

// AmountInWords renders an invoice amount as "<n> Rupees and <m> Paise Only".
func AmountInWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}

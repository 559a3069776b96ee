package cli

import "strconv"

// formatRupiah renders an amount in minor units as "Rp 12.500" with
// dot thousands separators, matching the locale of the service.
func formatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := "Rp " + string(out)
	if negative {
		s = "-" + s
	}
	return s
}

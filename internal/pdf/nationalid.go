package pdf

import (
	"fmt"
	"math/rand/v2"
)

// The receipt layout prints a fabricated payer identifier shaped like a
// Brazilian CPF: nine base digits plus two verification digits, mostly
// masked out in the rendered output. It is decorative filler text, not
// an identity or validation control of any kind.

// nationalIDCheckDigits computes the two verification digits for nine
// base digits. Each digit is 11 - (weighted sum mod 11); results of 10
// or 11 are forced to 0. The first sum weights the base digits 2..10 in
// reverse order; the second weights them 1..9 and includes the first
// verification digit with weight 10.
func nationalIDCheckDigits(base [9]int) (int, int) {
	sum1 := 0
	for i, d := range base {
		sum1 += d * (i + 2)
	}
	v1 := 11 - (sum1 % 11)
	if v1 >= 10 {
		v1 = 0
	}

	sum2 := v1 * 10
	for i, d := range base {
		sum2 += d * (i + 1)
	}
	v2 := 11 - (sum2 % 11)
	if v2 >= 10 {
		v2 = 0
	}

	return v1, v2
}

// generatePayerID returns eleven digits: nine random base digits
// followed by their two verification digits. The leading digit is never
// zero so the masked rendering looks plausible.
func generatePayerID() [11]int {
	var base [9]int
	base[0] = rand.IntN(9) + 1
	for i := 1; i < 9; i++ {
		base[i] = rand.IntN(10)
	}

	v1, v2 := nationalIDCheckDigits(base)

	var id [11]int
	copy(id[:9], base[:])
	id[9] = v1
	id[10] = v2
	return id
}

// maskPayerID formats an eleven-digit identifier in the partially
// masked form "***.*XXX.XXX-**" used on rendered receipts. Only digits
// two through seven survive the mask.
func maskPayerID(id [11]int) string {
	return fmt.Sprintf("***.*%d%d%d.%d%d%d-**",
		id[0], id[1], id[2], id[3], id[4], id[5])
}

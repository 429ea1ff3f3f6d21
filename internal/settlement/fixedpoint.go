package settlement

import "math/bits"

// MulDiv calcula floor(a*b/div) com produto intermediário de 128 bits.
// Divisão inteira truncada, sem arredondamento. Retorna
// ErrCalculationOverflow se o quociente não cabe em 64 bits ou se
// div == 0. Usado uniformemente para odds, multiplicador e bps.
func MulDiv(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, ErrCalculationOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		// quociente >= 2^64
		return 0, ErrCalculationOverflow
	}
	q, _ := bits.Div64(hi, lo, div)
	return q, nil
}

// AddChecked soma a+b com detecção de overflow.
func AddChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrCalculationOverflow
	}
	return sum, nil
}

// SubSaturating retorna a-b, saturando em zero.
func SubSaturating(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

package dsl

import "strconv"

// parseFloat parses a C-like numeric literal, stripping the optional
// trailing type suffix (f, F, l, L) the tokeniser accepts (spec.md §6).
func parseFloat(lexeme string) (float64, error) {
	if n := len(lexeme); n > 0 {
		switch lexeme[n-1] {
		case 'f', 'F', 'l', 'L':
			lexeme = lexeme[:n-1]
		}
	}
	return strconv.ParseFloat(lexeme, 64)
}

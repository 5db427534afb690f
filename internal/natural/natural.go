// Package natural provides a "natural sort" string comparator: runs of
// digits compare numerically, everything else compares by codepoint.
package natural

// Less reports whether a sorts before b under natural ordering. Maximal
// runs of digits are compared as integers (leading zeros are not
// significant); maximal runs of non-digits are compared byte-by-byte.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b under natural ordering. Numeric runs of equal value compare equal
// regardless of leading zeros (so "007" and "7" tie on that run).
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ni, da := digitRun(a, i)
			nj, db := digitRun(b, j)
			if c := compareNumeric(da, db); c != 0 {
				return c
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// digitRun returns the index just past the maximal digit run starting at
// start, and that run with leading zeros stripped (kept non-empty).
func digitRun(s string, start int) (next int, trimmed string) {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	run := s[start:end]
	trimmed = trimLeadingZeros(run)
	return end, trimmed
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// compareNumeric compares two digit strings (no leading zeros, non-empty)
// as integers, without risking overflow for arbitrarily long runs.
func compareNumeric(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

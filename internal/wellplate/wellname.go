package wellplate

import (
	"math"
	"strconv"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

// ParseWellName splits a well name like "A1", "b03" or "AF48" into zero-based
// row and column indices.
//
// The row is a run of ASCII letters (case-insensitive, A=0, Z=25, AA=26) and
// the column a run of ASCII digits, 1-based and optionally zero padded. The
// result is not checked against any plate; see Wellplate.WellOffset.
func ParseWellName(name string) (row, col int, err error) {
	i := 0
	row = -1
	for i < len(name) && isASCIILetter(name[i]) {
		row = (row+1)*26 + int(upper(name[i])-'A')
		if row > math.MaxInt32 {
			return 0, 0, schemaerr.Structuralf("well", "row name of %q is too long", name)
		}
		i++
	}
	if i == 0 {
		return 0, 0, schemaerr.Structuralf("well", "well name %q must start with a row letter", name)
	}
	digits := name[i:]
	if digits == "" {
		return 0, 0, schemaerr.Structuralf("well", "well name %q has no column number", name)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return 0, 0, schemaerr.Structuralf("well", "well name %q has a non-digit column %q", name, digits)
		}
	}
	number, err := strconv.ParseUint(digits, 10, 31)
	if err != nil {
		return 0, 0, schemaerr.Rangef("well", "column of %q: %v", name, err)
	}
	if number == 0 {
		return 0, 0, schemaerr.Rangef("well", "well name %q: columns start at 1", name)
	}
	return row, int(number) - 1, nil
}

// WellName formats zero-based indices as a well name: (0, 0) is "A1",
// (26, 11) is "AA12".
func WellName(row, col int) string {
	return RowName(row) + strconv.Itoa(col+1)
}

// RowName formats a zero-based row index as letters.
func RowName(row int) string {
	if row < 0 {
		return "?"
	}
	var letters []byte
	for n := row + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

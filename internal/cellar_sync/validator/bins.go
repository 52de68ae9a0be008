package validator

import (
	"regexp"
	"strings"
)

// Capacity of bins outside the grid layout (loose overflow boxes).
const overflowCapacity = 12

// Sentinel capacity for storage labels that are collections of containers
// rather than a single bin.
const noLimitCapacity = 999

// gridBinPattern matches a column letter A-J and a row number 1-19, the
// physical shelving layout.
var gridBinPattern = regexp.MustCompile(`^(?i)[a-j](1[0-9]|[1-9])$`)

// Columns narrower than the standard six-bottle slot.
var gridColumnCapacity = map[byte]int{
	'A': 6, 'B': 6, 'C': 6, 'F': 6, 'G': 6, 'H': 6,
	'D': 4, 'I': 4,
	'E': 2, 'J': 2,
}

// Labels with effectively unlimited capacity, matched case-insensitively.
var noLimitStorage = map[string]bool{
	"yellow box": true,
}

// IsGridBin reports whether a bin label names a slot in the shelving grid.
func IsGridBin(bin string) bool {
	return gridBinPattern.MatchString(bin)
}

// BinCapacity classifies a bin label into its bottle capacity.
func BinCapacity(bin string) int {
	if IsGridBin(bin) {
		col := strings.ToUpper(bin)[0]
		if c, ok := gridColumnCapacity[col]; ok {
			return c
		}
		return 6
	}
	if noLimitStorage[strings.ToLower(bin)] {
		return noLimitCapacity
	}
	return overflowCapacity
}

// Package naming derives output file prefixes and the English/Picture file
// names that go with them.
package naming

import (
	"regexp"
	"strconv"
)

var xedSuffix = regexp.MustCompile(`^(.*)_X(\d+)$`)

// XedPrefix returns the output prefix for a pass reading prefix: "_X1" is
// appended, or an existing "_X<k>" ending becomes "_X<k+1>".
func XedPrefix(prefix string) string {
	m := xedSuffix.FindStringSubmatch(prefix)
	if m == nil {
		return prefix + "_X1"
	}
	k, err := strconv.Atoi(m[2])
	if err != nil {
		// too many digits for an int
		return prefix + "_X1"
	}
	return m[1] + "_X" + strconv.Itoa(k+1)
}

// EnglishPath returns the English file name for prefix over numBits bits.
func EnglishPath(prefix string, numBits int) string {
	return prefix + "_" + strconv.Itoa(numBits) + "_eng.txt"
}

// PicturePath returns the Picture file name for prefix over numBits bits.
func PicturePath(prefix string, numBits int) string {
	return prefix + "_" + strconv.Itoa(numBits) + "_ZLpic.txt"
}

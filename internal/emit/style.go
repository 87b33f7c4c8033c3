package emit

import (
	"errors"
	"fmt"
)

// ErrUnknownStyle is returned by ParseStyle.
var ErrUnknownStyle = errors.New("unknown decomposition style")

// Style selects how a diagonal unitary is written out.
type Style int

const (
	// StyleOneLine writes a single embedded DIAG line.
	StyleOneLine Style = iota
	// StyleExact writes controlled phases, CNOT ladders and z-rotations.
	StyleExact
	// StyleOracular writes one flip-phase-flip triple per angle, using a
	// grounded bit as the oracle output.
	StyleOracular
)

var styleNames = [...]string{
	StyleOneLine:  "one_line",
	StyleExact:    "exact",
	StyleOracular: "oracular",
}

func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// StyleNames lists the accepted style names.
func StyleNames() []string {
	return append([]string(nil), styleNames[:]...)
}

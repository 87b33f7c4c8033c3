package circuit

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches radian expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// parseAngle parses an angle token and returns its value in radians.
//
// Supported formats:
//   - Plain numbers, in degrees: "30", "-12.5", "1e2"
//   - Pi expressions, in radians: "pi", "pi/2", "3*pi/4", "-2pi"
func parseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, false
		}
		return Radians(val), true
	}

	s = strings.ToLower(s)
	matches := piExprRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}
	negative := matches[1] == "-"
	coeffStr := matches[2]
	denomStr := matches[3]

	coeff := 1.0
	if coeffStr != "" {
		var err error
		coeff, err = strconv.ParseFloat(coeffStr, 64)
		if err != nil {
			return 0, false
		}
	}

	result := coeff * math.Pi
	if denomStr != "" {
		denom, err := strconv.ParseFloat(denomStr, 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		result /= denom
	}
	if negative {
		result = -result
	}
	return result, true
}

// FormatAngle renders a radian angle as an English degree token. Values are
// rounded to 10 decimals so that degree inputs survive the radian round trip.
func FormatAngle(rad float64) string {
	deg := math.Round(Degrees(rad)*1e10) / 1e10
	if deg == 0 {
		deg = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(deg, 'f', -1, 64)
}

// formatAngles joins angles with tabs.
func formatAngles(rads []float64) string {
	toks := make([]string, len(rads))
	for i, r := range rads {
		toks[i] = FormatAngle(r)
	}
	return strings.Join(toks, "\t")
}

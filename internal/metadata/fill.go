package metadata

import "math"

// Fill constants reserved by the upstream metadata chain for "field not
// present". Parse translates every fill into an explicit absent field;
// the constants stay exported for callers that assemble a Model by hand.
const (
	// FillInt marks an absent integer field.
	FillInt int64 = -3333
	// FillFloat marks an absent floating-point field.
	FillFloat float64 = -3333.0
	// FillString marks an absent text field.
	FillString = "undefined"
	// FillEpsilon is the tolerance for comparing floats against FillFloat.
	// Fill values round-trip through decimal text, so exact equality is
	// not reliable.
	FillEpsilon = 1e-5
)

// IsFillInt reports whether v is the integer fill value.
func IsFillInt(v int64) bool { return v == FillInt }

// IsFillFloat reports whether v lies within FillEpsilon of the float
// fill value.
func IsFillFloat(v float64) bool { return math.Abs(v-FillFloat) <= FillEpsilon }

// IsFillString reports whether s is absent, either empty or the reserved
// fill string.
func IsFillString(s string) bool { return s == "" || s == FillString }

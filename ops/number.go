package ops

import "github.com/woodsbury/decimal128"

// decimalNumber wraps decimal128.Decimal so the rest of this package (and every
// caller of Ops.GetNumberValue) depends only on the narrow surface declared here,
// rather than spreading decimal128 API calls across the codebase.
type decimalNumber struct {
	d decimal128.Decimal
}

// NumberFromInt64 widens an integral value into a Number with no precision loss.
func NumberFromInt64(i int64) Number {
	return decimalNumber{d: decimal128.FromInt64(i)}
}

// NumberFromFloat64 widens a floating-point value into a Number.
func NumberFromFloat64(f float64) Number {
	return decimalNumber{d: decimal128.FromFloat64(f)}
}

// Int64 returns the number as an int64 and whether the conversion was exact.
func (n decimalNumber) Int64() (int64, bool) {
	return n.d.Int64()
}

// Float64 returns the number widened to a float64. This may lose precision for
// values outside float64's range; callers that need exactness should use Int64 or
// the decimal string form via String.
func (n decimalNumber) Float64() float64 {
	f, _ := n.d.Float64()
	return f
}

// String renders the number in decimal form.
func (n decimalNumber) String() string {
	return n.d.String()
}

package dial

import (
	"math"
	"math/big"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DefaultUnit is the degree sign.
	DefaultUnit = "°"
	// MaxDecimals is the largest number of fractional digits shown.
	MaxDecimals = 2
)

// formatLanguage pins the decimal point to US conventions regardless of
// the host locale.
var formatLanguage = language.AmericanEnglish

// formatter renders values with a fixed number of decimals and a unit,
// e.g. "21.5°C". Digits are never grouped and halves round away from
// zero.
type formatter struct {
	decimals int
	unit     string
	printer  *message.Printer
}

func newFormatter(decimals int, unit string) formatter {
	f := formatter{printer: message.NewPrinter(formatLanguage)}
	f.set(decimals, unit)
	return f
}

// set clamps decimals to [0, MaxDecimals]. The unit is appended verbatim,
// so percent signs and verbs in it print literally.
func (f *formatter) set(decimals int, unit string) {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}
	f.decimals = decimals
	f.unit = unit
}

func (f formatter) format(v float64) string {
	n := number.Decimal(roundHalfUp(v, f.decimals), number.Scale(f.decimals), number.NoSeparator())
	return f.printer.Sprint(n) + f.unit
}

// roundHalfUp rounds v to the given number of decimals with ties going
// away from zero. It works on the shortest decimal form of v, so 1.005
// rounds to 1.01 the way it reads rather than the way it is stored.
func roundHalfUp(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return v
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	twice := new(big.Int).Abs(m)
	twice.Lsh(twice, 1)
	if twice.Cmp(r.Denom()) >= 0 {
		q.Add(q, big.NewInt(int64(m.Sign())))
	}
	out, _ := new(big.Rat).SetFrac(q, scale).Float64()
	return out
}

// Package compensation turns the free-form CTC map a student typed into the
// canonical form stored on every role: a numeric total plus derived pay
// figures. It never fails; malformed components count as zero.
package compensation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models"
)

// Component keys with special meaning in the pay formulas
const (
	KeyTotal = "total"
	KeyStock = "stock"
	KeyBonus = "bonus"
)

// VestingYears is the stock vesting schedule assumed for first-year pay
const VestingYears = 4

// leadingFloat matches the numeric prefix a lenient float parser accepts
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Normalizer computes totals and derived pay for roles
type Normalizer struct {
	logger zerolog.Logger
}

// NewNormalizer creates a Normalizer that logs skipped components to logger
func NewNormalizer(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// ParseAmount reads a numeric value from a component. Numbers pass through;
// text yields its leading decimal number ("12.5 LPA" is 12.5). ok is false
// when no number can be read.
func ParseAmount(v models.CTCValue) (float64, bool) {
	if v.IsNumber() {
		f := v.Number()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	m := leadingFloat.FindString(strings.TrimSpace(v.Text()))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Total sums every parseable component except a previously stored total.
func (n *Normalizer) Total(ctc models.CTC) float64 {
	var total float64
	for _, key := range ctc.Keys() {
		if key == KeyTotal {
			continue
		}
		v, _ := ctc.Get(key)
		amount, ok := ParseAmount(v)
		if !ok {
			n.logger.Debug().Str("component", key).Str("value", v.String()).Msg("Skipping non-numeric CTC component")
			continue
		}
		total += amount
	}
	return total
}

// NormalizeRole recomputes the role's total and derived pay in place.
// Every original component is preserved; "total" is moved to the end.
//
//	firstYear = total - stock + stock/4
//	annual    = total - bonus
func (n *Normalizer) NormalizeRole(role *models.Role) {
	total := n.Total(role.CTC)

	stock := n.component(role.CTC, KeyStock)
	bonus := n.component(role.CTC, KeyBonus)

	role.CTC.Delete(KeyTotal)
	role.CTC.Set(KeyTotal, models.NumberValue(total))

	role.FinalPayFirstYear = FormatAmount(total - stock + stock/VestingYears)
	role.FinalPayAnnual = FormatAmount(total - bonus)
}

// NormalizeCompany normalizes every role of c.
func (n *Normalizer) NormalizeCompany(c *models.Company) {
	for i := range c.Roles {
		n.NormalizeRole(&c.Roles[i])
	}
}

func (n *Normalizer) component(ctc models.CTC, key string) float64 {
	v, ok := ctc.Get(key)
	if !ok {
		return 0
	}
	amount, ok := ParseAmount(v)
	if !ok {
		return 0
	}
	return amount
}

// FormatAmount renders an amount with the shortest exact decimal form.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// PricedLine is the slice of a cart line the discount math needs.
type PricedLine struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
	UnitPrice  decimal.Decimal
	Quantity   int
}

// CheckApplicability verifies a discount can be applied to a cart with the
// given subtotal at the given instant. Returns a coded validation error
// naming the first failed constraint.
func CheckApplicability(d *models.Discount, subtotal decimal.Decimal, now time.Time) error {
	if d == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
	}
	if !d.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
	}
	if now.Before(d.ValidFrom) || now.After(d.ValidUntil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is not valid at this time")
	}
	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
	}
	if subtotal.LessThan(d.MinPurchase) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum purchase amount not met")
	}
	return nil
}

// ComputeAmount returns the discount amount for the given lines. Lines whose
// product or category is excluded do not count toward the eligible subtotal.
// The result never exceeds the eligible subtotal.
func ComputeAmount(d *models.Discount, lines []PricedLine) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}

	eligible := eligibleLines(d, lines)
	eligibleSubtotal := decimal.Zero
	eligibleQty := 0
	for _, line := range eligible {
		eligibleSubtotal = eligibleSubtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		eligibleQty += line.Quantity
	}
	if eligibleSubtotal.IsZero() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch d.Kind {
	case enums.DiscountKindPercentage:
		amount = eligibleSubtotal.Mul(d.Value).Div(oneHundred).Round(2)
		if d.MaxDiscount != nil && amount.GreaterThan(*d.MaxDiscount) {
			amount = *d.MaxDiscount
		}
	case enums.DiscountKindFixed:
		amount = d.Value
	case enums.DiscountKindBuyXGetY:
		amount = buyXGetYAmount(d, eligible, eligibleQty)
	default:
		return decimal.Zero
	}

	if amount.GreaterThan(eligibleSubtotal) {
		amount = eligibleSubtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// buyXGetYAmount grants the cheapest eligible line's unit price once the cart
// holds enough eligible units to cover the bought and free quantities.
func buyXGetYAmount(d *models.Discount, eligible []PricedLine, eligibleQty int) decimal.Decimal {
	buyQty := 0
	if d.BuyQty != nil {
		buyQty = *d.BuyQty
	}
	getQty := 1
	if d.GetQty != nil && *d.GetQty > 0 {
		getQty = *d.GetQty
	}
	if buyQty <= 0 || eligibleQty < buyQty+getQty {
		return decimal.Zero
	}

	cheapest := decimal.Zero
	for _, line := range eligible {
		if cheapest.IsZero() || line.UnitPrice.LessThan(cheapest) {
			cheapest = line.UnitPrice
		}
	}
	return cheapest
}

func eligibleLines(d *models.Discount, lines []PricedLine) []PricedLine {
	excludedProducts := toSet(d.ExcludedProducts)
	excludedCategories := toSet(d.ExcludedCategories)

	eligible := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if _, ok := excludedProducts[line.ProductID.String()]; ok {
			continue
		}
		if _, ok := excludedCategories[line.CategoryID.String()]; ok {
			continue
		}
		eligible = append(eligible, line)
	}
	return eligible
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

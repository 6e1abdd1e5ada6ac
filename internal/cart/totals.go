package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/internal/discounts"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
)

// Shipping tiers, applied to the pre-discount subtotal.
var (
	freeShippingThreshold    = decimal.NewFromInt(1000)
	reducedShippingThreshold = decimal.NewFromInt(500)
	reducedShippingFee       = decimal.NewFromInt(50)
	standardShippingFee      = decimal.NewFromInt(100)
)

// Line is one resolved cart row with its computed total.
type Line struct {
	ItemID     uuid.UUID       `json:"item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Title      string          `json:"title"`
	Image      string          `json:"image,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
	AddedAt    time.Time       `json:"added_at"`
	CategoryID uuid.UUID       `json:"-"`
}

// Details is the server-derived view of the cart the storefront renders from.
type Details struct {
	CartID         uuid.UUID       `json:"cart_id"`
	Items          []Line          `json:"items"`
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountCode   *string         `json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// ShippingFeeFor returns the fee tier for a pre-discount subtotal.
func ShippingFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(freeShippingThreshold):
		return decimal.Zero
	case subtotal.GreaterThanOrEqual(reducedShippingThreshold):
		return reducedShippingFee
	default:
		return standardShippingFee
	}
}

// BuildDetails derives the full cart view from the persisted cart. The
// discount amount is recomputed against the current lines; a discount that
// stopped being applicable contributes zero without being detached.
func BuildDetails(cart *models.Cart, now time.Time) *Details {
	details := &Details{
		CartID:         cart.ID,
		Items:          make([]Line, 0, len(cart.Items)),
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
	}

	priced := make([]discounts.PricedLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := Line{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			line.UnitPrice = item.Product.Price
			line.CategoryID = item.Product.CategoryID
			if len(item.Product.Images) > 0 {
				line.Image = item.Product.Images[0]
			}
		}
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		details.Items = append(details.Items, line)
		details.ItemCount += item.Quantity
		details.Subtotal = details.Subtotal.Add(line.LineTotal)

		priced = append(priced, discounts.PricedLine{
			ProductID:  line.ProductID,
			CategoryID: line.CategoryID,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}

	if cart.Discount != nil {
		code := cart.Discount.Code
		details.DiscountCode = &code
		if err := discounts.CheckApplicability(cart.Discount, details.Subtotal, now); err == nil {
			details.DiscountAmount = discounts.ComputeAmount(cart.Discount, priced)
		}
	}

	details.Total = details.Subtotal.Sub(details.DiscountAmount)
	if details.Total.IsNegative() {
		details.Total = decimal.Zero
	}
	details.ShippingFee = ShippingFeeFor(details.Subtotal)
	details.GrandTotal = details.Total.Add(details.ShippingFee)
	return details
}

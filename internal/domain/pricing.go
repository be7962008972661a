package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// ConvenienceFeeRate is applied to the ticket+F&B subtotal.
	ConvenienceFeeRate = "0.05"
	// GSTRate is applied after the convenience fee has been added.
	GSTRate = "0.18"
)

var (
	convenienceFeeRate = decimal.RequireFromString(ConvenienceFeeRate)
	gstRate            = decimal.RequireFromString(GSTRate)

	// Multipliers are looked up by category name; unknown categories fall
	// back to the base price unchanged.
	categoryMultipliers = map[string]decimal.Decimal{
		"regular":  decimal.NewFromInt(1),
		"premium":  decimal.RequireFromString("1.2"),
		"recliner": decimal.RequireFromString("1.5"),
	}
)

// CategoryPrice derives the per-seat price for a category from the show's
// base price. The result is rounded to the nearest whole unit; only the
// final fee/tax derivation keeps fractional amounts.
func CategoryPrice(basePrice decimal.Decimal, category string) decimal.Decimal {
	multiplier, ok := categoryMultipliers[category]
	if !ok {
		multiplier = decimal.NewFromInt(1)
	}

	return basePrice.Mul(multiplier).Round(0)
}

// PriceBreakdown is the itemised amount captured on a payment record.
// Values are unrounded; rounding to two decimals happens only when the
// breakdown is rendered in a response.
type PriceBreakdown struct {
	Tickets        decimal.Decimal `json:"tickets"`
	Fnb            decimal.Decimal `json:"fnb"`
	ConvenienceFee decimal.Decimal `json:"convenienceFee"`
	GST            decimal.Decimal `json:"gst"`
	Total          decimal.Decimal `json:"total"`
}

// DeriveTotal computes the convenience fee and GST on top of the raw ticket
// and F&B amounts: fee on (tickets+fnb), GST on the fee-inclusive subtotal.
func DeriveTotal(tickets, fnb decimal.Decimal) PriceBreakdown {
	base := tickets.Add(fnb)
	fee := base.Mul(convenienceFeeRate)
	subTotal := base.Add(fee)
	gst := subTotal.Mul(gstRate)

	return PriceBreakdown{
		Tickets:        tickets,
		Fnb:            fnb,
		ConvenienceFee: fee,
		GST:            gst,
		Total:          subTotal.Add(gst),
	}
}

// TicketTotal prices a classified seat batch against a per-category price
// table. Every category in the batch must have a price; a missing category
// is a hard ErrPricingMissing, never a silent default.
func TicketTotal(classified map[string][]string, pricing map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero

	for category, seats := range classified {
		price, ok := pricing[category]
		if !ok {
			return decimal.Zero, ErrPricingMissing
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(len(seats)))))
	}

	return total, nil
}

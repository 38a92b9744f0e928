// Package invoice holds the extracted invoice data model and its
// structural and numeric validation rules.
package invoice

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/common"
)

// LineItem is one billed entry on an invoice.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Record is the normalized invoice shape we want from the LLM.
// Amounts are plain decimals, dates are YYYY-MM-DD.
type Record struct {
	Vendor        string     `json:"vendor"`
	Date          string     `json:"date"`
	InvoiceNumber string     `json:"invoice_number"`
	TotalAmount   float64    `json:"total_amount"`
	LineItems     []LineItem `json:"line_items"`
}

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks required fields, per-item constraints, and the numeric
// cross-check between the declared total and the recomputed line-item sum.
// A cross-check mismatch beyond the tolerance is a hard failure, not a
// warning; it is the primary extraction-error and fraud signal.
func (r *Record) Validate() error {
	v := common.NewValidator().
		Field("vendor", r.Vendor, common.Required).
		Field("date", r.Date, common.Required).
		Field("invoice_number", r.InvoiceNumber, common.Required)
	if v.HasErrors() {
		return common.NewAppError("INVOICE_INVALID", v.Error().Error(), common.ErrValidation)
	}

	if !reISODate.MatchString(r.Date) {
		return common.NewAppError("INVOICE_INVALID",
			fmt.Sprintf("date %q is not in YYYY-MM-DD form", r.Date), common.ErrValidation)
	}
	if r.TotalAmount < 0 {
		return common.NewAppError("INVOICE_INVALID",
			fmt.Sprintf("total_amount %v must not be negative", r.TotalAmount), common.ErrValidation)
	}
	if len(r.LineItems) == 0 {
		return common.NewAppError("INVOICE_INVALID", "no line items found in invoice", common.ErrValidation)
	}

	for i, item := range r.LineItems {
		iv := common.NewValidator().
			Field(fmt.Sprintf("line_items[%d].name", i), item.Name, common.Required).
			Field(fmt.Sprintf("line_items[%d].quantity", i), item.Quantity, common.Positive).
			Field(fmt.Sprintf("line_items[%d].price", i), item.Price, common.Positive)
		if iv.HasErrors() {
			return common.NewAppError("INVOICE_INVALID", iv.Error().Error(), common.ErrValidation)
		}
	}

	sum := r.RecomputedTotal()
	tolerance := decimal.RequireFromString(constants.TotalTolerance)
	declared := decimal.NewFromFloat(r.TotalAmount)
	if declared.Sub(sum).Abs().GreaterThan(tolerance) {
		return common.NewAppError("INVOICE_TOTAL_MISMATCH",
			fmt.Sprintf("total amount %s does not match sum of line items %s",
				declared.String(), sum.String()), common.ErrValidation)
	}
	return nil
}

// RecomputedTotal returns the quantity-weighted line-item sum as a
// decimal. Validate uses it for the declared-total cross-check.
func (r *Record) RecomputedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range r.LineItems {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Quantity)))
	}
	return sum
}

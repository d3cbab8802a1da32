// Package businessflow contains the core business logic and use cases for the marketplace core
package businessflow

// MoneySplit is the server-computed division of an item line total between the
// platform and the vendor. All amounts are in paise. It is computed, never
// persisted as such; settlement rows copy its fields.
type MoneySplit struct {
	ItemTotal    uint64 `json:"item_total"`
	Commission   uint64 `json:"commission"`
	VendorAmount uint64 `json:"vendor_amount"`
}

// ComputeSplit divides itemTotal between platform commission and vendor payout
// for the given commission percent. Commission is rounded half away from zero;
// the vendor amount is the exact remainder, so
// Commission + VendorAmount == ItemTotal holds for every valid input and any
// rounding error lands entirely in the commission.
//
// itemTotal is signed so caller contract violations (negative amounts) are
// rejected with ErrInvalidAmount instead of wrapping around.
func ComputeSplit(itemTotal int64, percent int) (MoneySplit, error) {
	if itemTotal < 0 {
		return MoneySplit{}, ErrInvalidAmount
	}

	total := uint64(itemTotal)

	// Integer round-half-up of total*percent/100. Equivalent to half away from
	// zero since total is non-negative. Splitting the total into hundreds plus
	// a remainder keeps the product inside uint64 for every valid total; the
	// naive total*percent can exceed 64 bits.
	q, r := total/100, total%100
	commission := q*uint64(percent) + (r*uint64(percent)+50)/100
	vendorAmount := total - commission

	return MoneySplit{
		ItemTotal:    total,
		Commission:   commission,
		VendorAmount: vendorAmount,
	}, nil
}

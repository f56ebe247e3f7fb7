// Package finance computes collected/remaining amounts from payments.
// Totals are always derived fresh from the payment set at read time; nothing
// here is cached on the area or project record.
package finance

import (
	"github.com/google/uuid"

	"github.com/craftforge/craftforge/internal/models"
)

// AreaTotals holds derived amounts for one area. Remaining may be negative
// when an area is overpaid; no clamping.
type AreaTotals struct {
	Collected float64 `json:"collected_amount"`
	Remaining float64 `json:"remaining_amount"`
}

// ProjectTotals sums the agreed/collected/remaining amounts of all areas.
type ProjectTotals struct {
	TotalAgreed    float64 `json:"total_agreed"`
	TotalCollected float64 `json:"total_collected"`
	TotalRemaining float64 `json:"total_remaining"`
}

// ForArea derives totals for an area from its payments.
func ForArea(agreedPrice float64, payments []models.Payment) AreaTotals {
	var collected float64
	for _, p := range payments {
		collected += p.Amount
	}
	return AreaTotals{
		Collected: collected,
		Remaining: agreedPrice - collected,
	}
}

// ForProject derives project totals from the owned areas and all their
// payments. Payments belonging to unknown areas are ignored.
func ForProject(areas []models.Area, payments []models.Payment) ProjectTotals {
	byArea := GroupByArea(payments)

	var totals ProjectTotals
	for _, a := range areas {
		at := ForArea(a.AgreedPrice, byArea[a.ID])
		totals.TotalAgreed += a.AgreedPrice
		totals.TotalCollected += at.Collected
		totals.TotalRemaining += at.Remaining
	}
	return totals
}

// GroupByArea buckets payments by owning area.
func GroupByArea(payments []models.Payment) map[uuid.UUID][]models.Payment {
	byArea := make(map[uuid.UUID][]models.Payment, len(payments))
	for _, p := range payments {
		byArea[p.AreaID] = append(byArea[p.AreaID], p)
	}
	return byArea
}

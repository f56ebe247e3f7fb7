package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/craftforge/craftforge/internal/models"
)

func payment(areaID uuid.UUID, amount float64) models.Payment {
	return models.Payment{ID: uuid.New(), AreaID: areaID, Amount: amount}
}

func TestForArea_NoPayments(t *testing.T) {
	totals := ForArea(1000, nil)
	assert.Equal(t, 0.0, totals.Collected)
	assert.Equal(t, 1000.0, totals.Remaining)
}

func TestForArea_PartialPayments(t *testing.T) {
	areaID := uuid.New()
	totals := ForArea(1000, []models.Payment{
		payment(areaID, 250),
		payment(areaID, 150),
	})
	assert.Equal(t, 400.0, totals.Collected)
	assert.Equal(t, 600.0, totals.Remaining)
}

func TestForArea_OverpaidGoesNegative(t *testing.T) {
	areaID := uuid.New()
	totals := ForArea(500, []models.Payment{
		payment(areaID, 400),
		payment(areaID, 300),
	})
	assert.Equal(t, 700.0, totals.Collected)
	assert.Equal(t, -200.0, totals.Remaining)
}

func TestForProject_SumsAcrossAreas(t *testing.T) {
	areaOne := models.Area{ID: uuid.New(), AgreedPrice: 1000}
	areaTwo := models.Area{ID: uuid.New(), AgreedPrice: 2000}

	payments := []models.Payment{
		payment(areaOne.ID, 600),
		payment(areaTwo.ID, 500),
		payment(areaTwo.ID, 500),
	}

	totals := ForProject([]models.Area{areaOne, areaTwo}, payments)
	assert.Equal(t, 3000.0, totals.TotalAgreed)
	assert.Equal(t, 1600.0, totals.TotalCollected)
	assert.Equal(t, 1400.0, totals.TotalRemaining)
}

func TestForProject_IgnoresPaymentsOfUnknownAreas(t *testing.T) {
	area := models.Area{ID: uuid.New(), AgreedPrice: 1000}
	payments := []models.Payment{
		payment(area.ID, 100),
		payment(uuid.New(), 9999),
	}

	totals := ForProject([]models.Area{area}, payments)
	assert.Equal(t, 100.0, totals.TotalCollected)
	assert.Equal(t, 900.0, totals.TotalRemaining)
}

func TestForProject_NoAreas(t *testing.T) {
	totals := ForProject(nil, nil)
	assert.Equal(t, 0.0, totals.TotalAgreed)
	assert.Equal(t, 0.0, totals.TotalCollected)
	assert.Equal(t, 0.0, totals.TotalRemaining)
}

func TestGroupByArea(t *testing.T) {
	areaOne := uuid.New()
	areaTwo := uuid.New()
	payments := []models.Payment{
		payment(areaOne, 1),
		payment(areaTwo, 2),
		payment(areaOne, 3),
	}

	byArea := GroupByArea(payments)
	assert.Len(t, byArea[areaOne], 2)
	assert.Len(t, byArea[areaTwo], 1)
}

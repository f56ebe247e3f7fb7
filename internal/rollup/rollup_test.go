package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftforge/craftforge/internal/models"
)

func TestReduce_EmptySet(t *testing.T) {
	assert.Equal(t, models.StatusPlanlandi, Reduce(nil))
	assert.Equal(t, models.StatusPlanlandi, Reduce([]models.Status{}))
}

func TestReduce_AllCompleted(t *testing.T) {
	statuses := []models.Status{
		models.StatusTamamlandi,
		models.StatusTamamlandi,
		models.StatusTamamlandi,
	}
	assert.Equal(t, models.StatusTamamlandi, Reduce(statuses))
}

func TestReduce_SingleCompleted(t *testing.T) {
	assert.Equal(t, models.StatusTamamlandi, Reduce([]models.Status{models.StatusTamamlandi}))
}

func TestReduce_MontajBeatsUretimde(t *testing.T) {
	statuses := []models.Status{
		models.StatusUretimde,
		models.StatusMontaj,
		models.StatusBekliyor,
	}
	assert.Equal(t, models.StatusMontaj, Reduce(statuses))
}

func TestReduce_UretimdeWithoutMontaj(t *testing.T) {
	statuses := []models.Status{
		models.StatusBekliyor,
		models.StatusUretimde,
		models.StatusTamamlandi,
	}
	assert.Equal(t, models.StatusUretimde, Reduce(statuses))
}

func TestReduce_KontrolAndBekliyorNeverDrive(t *testing.T) {
	statuses := []models.Status{
		models.StatusKontrol,
		models.StatusBekliyor,
		models.StatusPlanlandi,
	}
	assert.Equal(t, models.StatusPlanlandi, Reduce(statuses))
}

func TestReduce_CompletedMixedWithWaiting(t *testing.T) {
	// One task still waiting blocks completion and nothing is in
	// production, so the set falls back to planlandi.
	statuses := []models.Status{
		models.StatusTamamlandi,
		models.StatusBekliyor,
	}
	assert.Equal(t, models.StatusPlanlandi, Reduce(statuses))
}

func TestReduce_OrderIndependent(t *testing.T) {
	base := []models.Status{
		models.StatusTamamlandi,
		models.StatusMontaj,
		models.StatusUretimde,
		models.StatusBekliyor,
		models.StatusKontrol,
	}
	want := Reduce(base)

	permutations := [][]models.Status{
		{base[4], base[3], base[2], base[1], base[0]},
		{base[1], base[0], base[4], base[2], base[3]},
		{base[2], base[4], base[0], base[3], base[1]},
	}
	for _, p := range permutations {
		assert.Equal(t, want, Reduce(p))
	}
}

func TestReduce_Idempotent(t *testing.T) {
	statuses := []models.Status{models.StatusMontaj, models.StatusUretimde}
	first := Reduce(statuses)
	second := Reduce(statuses)
	assert.Equal(t, first, second)
}

func TestReduceProject_EmptyKeepsCurrent(t *testing.T) {
	assert.Equal(t, models.StatusDurduruldu, ReduceProject(models.StatusDurduruldu, nil))
	assert.Equal(t, models.StatusMontaj, ReduceProject(models.StatusMontaj, []models.Status{}))
}

func TestReduceProject_NonEmptyOverridesCurrent(t *testing.T) {
	statuses := []models.Status{models.StatusUretimde}
	assert.Equal(t, models.StatusUretimde, ReduceProject(models.StatusTamamlandi, statuses))
}

func TestReduce_TwoAreasScenario(t *testing.T) {
	// Area one fully completed, area two still in production: the area
	// reductions differ but the project union lands on uretimde.
	areaOne := []models.Status{models.StatusTamamlandi, models.StatusTamamlandi}
	areaTwo := []models.Status{models.StatusUretimde, models.StatusBekliyor}

	assert.Equal(t, models.StatusTamamlandi, Reduce(areaOne))
	assert.Equal(t, models.StatusUretimde, Reduce(areaTwo))

	union := append(append([]models.Status{}, areaOne...), areaTwo...)
	assert.Equal(t, models.StatusUretimde, ReduceProject(models.StatusPlanlandi, union))
}

// Package rollup derives area and project statuses from task statuses.
//
// The reduction is deterministic and order-independent with a fixed
// precedence: all-completed > any-montaj > any-uretimde > planlandi.
// "kontrol" and "bekliyor" never drive the rollup on their own.
package rollup

import "github.com/craftforge/craftforge/internal/models"

// Reduce computes the derived status for a status multiset. An empty set
// yields planlandi.
func Reduce(statuses []models.Status) models.Status {
	if len(statuses) == 0 {
		return models.StatusPlanlandi
	}

	allCompleted := true
	anyMontaj := false
	anyUretimde := false
	for _, s := range statuses {
		if s != models.StatusTamamlandi {
			allCompleted = false
		}
		switch s {
		case models.StatusMontaj:
			anyMontaj = true
		case models.StatusUretimde:
			anyUretimde = true
		}
	}

	switch {
	case allCompleted:
		return models.StatusTamamlandi
	case anyMontaj:
		return models.StatusMontaj
	case anyUretimde:
		return models.StatusUretimde
	default:
		return models.StatusPlanlandi
	}
}

// ReduceProject applies the same reduction over the union of all task
// statuses in a project. A project with no tasks keeps its current status;
// nothing has happened yet that could move it.
func ReduceProject(current models.Status, statuses []models.Status) models.Status {
	if len(statuses) == 0 {
		return current
	}
	return Reduce(statuses)
}

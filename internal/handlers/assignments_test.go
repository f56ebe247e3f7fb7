package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/craftforge/craftforge/internal/models"
)

func TestIsDuplicateAssignment_ProjectScopeDuplicate(t *testing.T) {
	userID := uuid.New()
	existing := []models.Assignment{{
		UserID: userID,
		Type:   models.AssignmentProject,
		AreaID: nil,
	}}

	// A second project-scope row for the same user carries a nil area id
	// on both sides and must be rejected as a duplicate.
	assert.True(t, isDuplicateAssignment(existing, userID, models.AssignmentProject, nil))
}

func TestIsDuplicateAssignment_AreaScopeDuplicate(t *testing.T) {
	userID := uuid.New()
	areaID := uuid.New()
	existing := []models.Assignment{{
		UserID: userID,
		Type:   models.AssignmentArea,
		AreaID: &areaID,
	}}

	sameArea := areaID
	assert.True(t, isDuplicateAssignment(existing, userID, models.AssignmentArea, &sameArea))

	otherArea := uuid.New()
	assert.False(t, isDuplicateAssignment(existing, userID, models.AssignmentArea, &otherArea))
}

func TestIsDuplicateAssignment_DifferentScopeNotDuplicate(t *testing.T) {
	userID := uuid.New()
	areaID := uuid.New()
	existing := []models.Assignment{{
		UserID: userID,
		Type:   models.AssignmentProject,
		AreaID: nil,
	}}

	// Narrowing the same user to one area is a distinct tuple.
	assert.False(t, isDuplicateAssignment(existing, userID, models.AssignmentArea, &areaID))
}

func TestIsDuplicateAssignment_OtherUserIgnored(t *testing.T) {
	existing := []models.Assignment{{
		UserID: uuid.New(),
		Type:   models.AssignmentProject,
		AreaID: nil,
	}}

	assert.False(t, isDuplicateAssignment(existing, uuid.New(), models.AssignmentProject, nil))
}

func TestIsDuplicateAssignment_EmptySet(t *testing.T) {
	assert.False(t, isDuplicateAssignment(nil, uuid.New(), models.AssignmentProject, nil))
}

package authz

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftforge/craftforge/internal/models"
)

func testProject(createdBy uuid.UUID) *models.Project {
	return &models.Project{ID: uuid.New(), TenantID: uuid.New(), CreatedBy: createdBy, Status: models.StatusUretimde}
}

func TestCanAccessProject_Admin(t *testing.T) {
	actor := &Actor{ID: uuid.New(), IsAdmin: true}
	project := testProject(uuid.New())
	assert.True(t, CanAccessProject(actor, project, nil, nil))
}

func TestCanAccessProject_ViewAllPermission(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{PermProjectsViewAll}}
	project := testProject(uuid.New())
	assert.True(t, CanAccessProject(actor, project, nil, nil))
}

func TestCanAccessProject_Creator(t *testing.T) {
	actorID := uuid.New()
	actor := &Actor{ID: actorID, Permissions: []string{}}
	project := testProject(actorID)
	assert.True(t, CanAccessProject(actor, project, nil, nil))
}

func TestCanAccessProject_ProjectAssignment(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{}}
	project := testProject(uuid.New())
	assignments := []models.Assignment{{
		ProjectID: project.ID,
		UserID:    actor.ID,
		Type:      models.AssignmentProject,
	}}
	assert.True(t, CanAccessProject(actor, project, assignments, nil))

	// Project scope also covers any area query.
	areaID := uuid.New()
	assert.True(t, CanAccessProject(actor, project, assignments, &areaID))
}

func TestCanAccessProject_AreaAssignmentMatchesOnlyItsArea(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{}}
	project := testProject(uuid.New())
	assignedArea := uuid.New()
	otherArea := uuid.New()
	assignments := []models.Assignment{{
		ProjectID: project.ID,
		UserID:    actor.ID,
		Type:      models.AssignmentArea,
		AreaID:    &assignedArea,
	}}

	assert.True(t, CanAccessProject(actor, project, assignments, &assignedArea))
	assert.False(t, CanAccessProject(actor, project, assignments, &otherArea))
	// Without a concrete area in question an area-scope assignment does
	// not grant whole-project access.
	assert.False(t, CanAccessProject(actor, project, assignments, nil))
}

func TestCanAccessProject_NoGrants(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{PermProjectsView}}
	project := testProject(uuid.New())
	assert.False(t, CanAccessProject(actor, project, nil, nil))
}

func TestCanAccessProject_ForeignAssignmentIgnored(t *testing.T) {
	actor := &Actor{ID: uuid.New(), Permissions: []string{}}
	project := testProject(uuid.New())
	assignments := []models.Assignment{{
		ProjectID: uuid.New(), // different project
		UserID:    actor.ID,
		Type:      models.AssignmentProject,
	}}
	assert.False(t, CanAccessProject(actor, project, assignments, nil))
}

func TestCheckLock_NilProject(t *testing.T) {
	actor := &Actor{ID: uuid.New()}
	assert.NoError(t, CheckLock(nil, actor))
}

func TestCheckLock_ActiveProject(t *testing.T) {
	actor := &Actor{ID: uuid.New()}
	project := testProject(uuid.New())
	assert.NoError(t, CheckLock(project, actor))
}

func TestCheckLock_CompletedRejectsEveryone(t *testing.T) {
	project := testProject(uuid.New())
	project.Status = models.StatusTamamlandi

	member := &Actor{ID: uuid.New()}
	admin := &Actor{ID: uuid.New(), IsAdmin: true}

	for _, actor := range []*Actor{member, admin} {
		err := CheckLock(project, actor)
		require.Error(t, err)

		var lockErr *LockError
		require.True(t, errors.As(err, &lockErr))
		assert.True(t, lockErr.Completed)
	}
}

func TestCheckLock_StoppedRejectsNonAdminsOnly(t *testing.T) {
	project := testProject(uuid.New())
	project.Status = models.StatusDurduruldu

	member := &Actor{ID: uuid.New()}
	err := CheckLock(project, member)
	require.Error(t, err)

	var lockErr *LockError
	require.True(t, errors.As(err, &lockErr))
	assert.False(t, lockErr.Completed)

	admin := &Actor{ID: uuid.New(), IsAdmin: true}
	assert.NoError(t, CheckLock(project, admin))
}

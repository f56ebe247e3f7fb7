package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftforge/craftforge/internal/models"
)

func TestExpandAreaTasks_OnePerWorkItemAndSubtask(t *testing.T) {
	tenantID := uuid.New()
	projectID := uuid.New()
	areaID := uuid.New()
	now := time.Now().UTC()

	groupID := uuid.New()
	groupNames := map[uuid.UUID]string{groupID: "Üretim"}
	subtasks := []models.Subtask{
		{ID: uuid.New(), GroupID: groupID, Name: "Kesim"},
		{ID: uuid.New(), GroupID: groupID, Name: "İşleme"},
	}
	refs := models.WorkItemList{
		{WorkItemID: uuid.New(), Name: "Mutfak Dolabı", Quantity: 1},
		{WorkItemID: uuid.New(), Name: "Kapı", Quantity: 2},
		{WorkItemID: uuid.New(), Name: "Vestiyer", Quantity: 1},
	}

	tasks := expandAreaTasks(tenantID, projectID, areaID, refs, subtasks, groupNames, now)
	require.Len(t, tasks, 6)

	for _, task := range tasks {
		assert.Equal(t, tenantID, task.TenantID)
		assert.Equal(t, projectID, task.ProjectID)
		assert.Equal(t, areaID, task.AreaID)
		assert.Equal(t, models.StatusBekliyor, task.Status)
		assert.Equal(t, "Üretim", task.GroupName)
		assert.NotEmpty(t, task.WorkItemName)
		assert.NotEmpty(t, task.SubtaskName)
	}

	// Every (work item, subtask) pair appears exactly once.
	seen := map[[2]uuid.UUID]bool{}
	for _, task := range tasks {
		key := [2]uuid.UUID{task.WorkItemID, task.SubtaskID}
		assert.False(t, seen[key], "duplicate pair")
		seen[key] = true
	}
}

func TestExpandAreaTasks_EmptyInputs(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now().UTC()
	subtasks := []models.Subtask{{ID: uuid.New(), GroupID: uuid.New(), Name: "Kesim"}}
	refs := models.WorkItemList{{WorkItemID: uuid.New(), Name: "Kapı"}}

	assert.Nil(t, expandAreaTasks(tenantID, uuid.New(), uuid.New(), nil, subtasks, nil, now))
	assert.Nil(t, expandAreaTasks(tenantID, uuid.New(), uuid.New(), refs, nil, nil, now))
}

func TestExpandAreaTasks_UnknownGroupNameLeftEmpty(t *testing.T) {
	subtasks := []models.Subtask{{ID: uuid.New(), GroupID: uuid.New(), Name: "Kesim"}}
	refs := models.WorkItemList{{WorkItemID: uuid.New(), Name: "Kapı"}}

	tasks := expandAreaTasks(uuid.New(), uuid.New(), uuid.New(), refs, subtasks, map[uuid.UUID]string{}, time.Now().UTC())
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].GroupName)
	assert.Equal(t, "Kesim", tasks[0].SubtaskName)
}

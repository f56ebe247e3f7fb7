package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftforge/craftforge/internal/models"
)

func TestLockedProjectUpdate_AdminStatusOnly(t *testing.T) {
	status := models.StatusUretimde
	updates, ok := lockedProjectUpdate(true, true, &status)

	assert.True(t, ok)
	// Even if the payload carried name or customer edits, a locked project
	// only ever takes the status field.
	assert.Equal(t, map[string]interface{}{"status": status}, updates)
}

func TestLockedProjectUpdate_NonAdminRejected(t *testing.T) {
	status := models.StatusUretimde
	updates, ok := lockedProjectUpdate(false, true, &status)

	assert.False(t, ok)
	assert.Nil(t, updates)
}

func TestLockedProjectUpdate_AdminWithoutStatusChangeRejected(t *testing.T) {
	updates, ok := lockedProjectUpdate(true, false, nil)

	assert.False(t, ok)
	assert.Nil(t, updates)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTaskStatus(t *testing.T) {
	assert.True(t, ValidTaskStatus(StatusBekliyor))
	assert.True(t, ValidTaskStatus(StatusTamamlandi))
	assert.False(t, ValidTaskStatus(StatusDurduruldu), "tasks are never stopped individually")
	assert.False(t, ValidTaskStatus(Status("bogus")))
}

func TestValidProjectStatus(t *testing.T) {
	assert.True(t, ValidProjectStatus(StatusDurduruldu))
	assert.True(t, ValidProjectStatus(StatusPlanlandi))
	assert.False(t, ValidProjectStatus(StatusBekliyor), "projects never wait")
	assert.False(t, ValidProjectStatus(Status("")))
}

func TestStatusIsLocked(t *testing.T) {
	assert.True(t, StatusTamamlandi.IsLocked())
	assert.True(t, StatusDurduruldu.IsLocked())
	assert.False(t, StatusUretimde.IsLocked())
	assert.False(t, StatusPlanlandi.IsLocked())
}

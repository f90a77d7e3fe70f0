package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barberella/barberella-api/internal/httperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled", "no_show"} {
		got, err := ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("rescheduled")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	_, err = ParseStatus("")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus())
}

func TestBlocking(t *testing.T) {
	assert.True(t, StatusPending.Blocking())
	assert.True(t, StatusConfirmed.Blocking())
	assert.True(t, StatusCompleted.Blocking())
	assert.True(t, StatusNoShow.Blocking())

	assert.False(t, StatusCancelled.Blocking())
}

func TestBlockingStatuses(t *testing.T) {
	statuses := BlockingStatuses()

	assert.ElementsMatch(t, []string{"pending", "confirmed", "completed", "no_show"}, statuses)
	assert.NotContains(t, statuses, "cancelled")
}

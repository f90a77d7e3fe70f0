package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
)

func TestAllocateConfirmationCodeRetriesUntilFree(t *testing.T) {
	repo := newMockRepo()

	calls := 0
	repo.codeInUse = func(string) bool {
		calls++
		return calls <= 2
	}

	code, err := allocateConfirmationCode(context.Background(), repo, time.Now())

	assert.NoError(t, err)
	assert.Len(t, code, 3)
	assert.Equal(t, 3, calls)
}

func TestAllocateConfirmationCodeExhausted(t *testing.T) {
	repo := newMockRepo()

	calls := 0
	repo.codeInUse = func(string) bool {
		calls++
		return true
	}

	code, err := allocateConfirmationCode(context.Background(), repo, time.Now())

	assert.Empty(t, code)
	assert.True(t, httperr.IsBusiness(err, "code_space_exhausted"))
	assert.Equal(t, domain.MaxCodeAttempts, calls)
}

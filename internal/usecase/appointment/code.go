package appointment

import (
	"context"
	"time"

	domain "github.com/barberella/barberella-api/internal/domain/appointment"
	"github.com/barberella/barberella-api/internal/httperr"
	"github.com/barberella/barberella-api/internal/metrics"
)

// allocateConfirmationCode samples 3-digit codes until one is free
// among appointments from the given day onward. The attempt budget
// keeps a nearly exhausted code space from looping forever; callers
// surface the failure and the client retries the whole creation.
func allocateConfirmationCode(
	ctx context.Context,
	repo domain.Repository,
	from time.Time,
) (string, error) {

	for attempt := 1; attempt <= domain.MaxCodeAttempts; attempt++ {
		code := domain.RandomCode()

		used, err := repo.CodeInUse(ctx, code, from)
		if err != nil {
			return "", err
		}
		if !used {
			metrics.CodeAllocationAttempts.Observe(float64(attempt))
			return code, nil
		}
	}

	metrics.CodeAllocationAttempts.Observe(float64(domain.MaxCodeAttempts))
	return "", httperr.ErrBusiness("code_space_exhausted")
}

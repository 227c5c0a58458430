package probe

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryChecker re-runs a failed check a few times before giving up.
// A success on any attempt is returned as-is; after a failed series the
// last result is returned with its message annotated.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last CheckResult
	err := retry.Do(
		func() error {
			last = r.Inner.Check(ctx, target)
			if !last.Success {
				return errors.New(last.Message)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(r.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		last.Success = false
		last.Message = last.Message + " (after retries)"
	}
	return last
}

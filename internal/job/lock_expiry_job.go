package job

import (
	"context"

	"github.com/pagemill/pagemill/internal/service"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// LockExpiryJob reaps expired edit locks. Expiry is already enforced on the
// read path, the sweep only keeps the table small.
type LockExpiryJob struct {
	locks *service.LockService
}

func NewLockExpiryJob(locks *service.LockService) *LockExpiryJob {
	return &LockExpiryJob{locks: locks}
}

func (j *LockExpiryJob) Name() string {
	return "lock_expiry"
}

func (j *LockExpiryJob) Run(ctx context.Context) error {
	if j.locks == nil {
		return nil
	}
	deleted, err := j.locks.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("expired locks removed", zap.Int64("count", deleted))
	}
	return nil
}

package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"prepmate/api/internal/repositories"
)

// TokenCleanupJob periodically purges expired verification/reset tokens
// and removes unverified accounts whose verification window has lapsed,
// freeing their usernames and emails.
type TokenCleanupJob struct {
	users    *repositories.UserRepository
	tokens   *repositories.TokenRepository
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewTokenCleanupJob(users *repositories.UserRepository, tokens *repositories.TokenRepository, schedule string, logger *zap.Logger) *TokenCleanupJob {
	if schedule == "" {
		schedule = "0 3 * * *" // 3 AM daily
	}
	return &TokenCleanupJob{
		users:    users,
		tokens:   tokens,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduled cleanup job
func (j *TokenCleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("token cleanup job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (j *TokenCleanupJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run executes one cleanup sweep.
func (j *TokenCleanupJob) Run() {
	unverified, err := j.users.GetUnverified()
	if err != nil {
		j.logger.Error("cleanup: failed to list unverified users", zap.Error(err))
	} else {
		removed := 0
		for i := range unverified {
			deleted, err := repositories.CleanupUnverifiedUserIfExpired(j.users, j.tokens, &unverified[i])
			if err != nil {
				j.logger.Error("cleanup: failed to process unverified user",
					zap.Uint("user_id", unverified[i].ID), zap.Error(err))
				continue
			}
			if deleted {
				removed++
			}
		}
		if removed > 0 {
			j.logger.Info("cleanup: removed stale unverified accounts", zap.Int("count", removed))
		}
	}

	// expired reset tokens are swept after the user pass so verification
	// tokens still present drive the unverified-account decision above
	count, err := j.tokens.DeleteExpired(time.Now())
	if err != nil {
		j.logger.Error("cleanup: failed to delete expired tokens", zap.Error(err))
		return
	}
	if count > 0 {
		j.logger.Info("cleanup: deleted expired tokens", zap.Int64("count", count))
	}
}

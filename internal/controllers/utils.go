package controllers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PeriodicTask represents a periodic task configuration
type PeriodicTask struct {
	Name     string
	Interval time.Duration
	Task     func(ctx context.Context) error
}

// RunPeriodicTask runs a task periodically until context is cancelled. The
// first run happens one interval after the call.
func RunPeriodicTask(ctx context.Context, task PeriodicTask, logger *zap.SugaredLogger) {
	if task.Interval <= 0 {
		task.Interval = time.Minute
	}
	logger.Infof("Starting periodic task: %s (interval: %v)", task.Name, task.Interval)

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task.Task(ctx); err != nil {
				logger.Errorf("Error in periodic task %s: %v", task.Name, err)
			}
		case <-ctx.Done():
			logger.Infof("Stopping periodic task: %s", task.Name)
			return
		}
	}
}

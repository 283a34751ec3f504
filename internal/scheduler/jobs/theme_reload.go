// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"

	"github.com/wonny/quantlens/backend/internal/themes"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// ThemeReloadJob re-reads the theme definitions file so edits go live
// without a restart
type ThemeReloadJob struct {
	store    *themes.Store
	schedule string
	logger   *logger.Logger
}

// NewThemeReloadJob creates the reload job with its cron schedule
func NewThemeReloadJob(store *themes.Store, schedule string, log *logger.Logger) *ThemeReloadJob {
	return &ThemeReloadJob{
		store:    store,
		schedule: schedule,
		logger:   log,
	}
}

func (j *ThemeReloadJob) Name() string {
	return "theme_reload"
}

func (j *ThemeReloadJob) Schedule() string {
	return j.schedule
}

// Run reloads the definitions; a broken file keeps the previous set
func (j *ThemeReloadJob) Run(_ context.Context) error {
	if err := j.store.Reload(); err != nil {
		return err
	}

	j.logger.WithField("themes", len(j.store.List())).Info("Theme definitions reloaded")
	return nil
}

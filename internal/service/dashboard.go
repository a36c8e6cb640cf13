// Package service sequences the multi-request flows behind the dashboard
// and check-in views on top of the api client.
package service

import (
	"context"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/model"
	"github.com/cmmeyer1800/accountabilidash/internal/progress"
)

// Dashboard is the loaded dashboard: all active goals split by completion,
// plus the summary counts shown above the goal list.
type Dashboard struct {
	Pending   []model.GoalWithProgress
	Completed []model.GoalWithProgress

	ActiveGoals    int
	CompletedCount int
	RemainingCount int
}

// LoadDashboard fetches the current-period progress for all active goals.
func LoadDashboard(ctx context.Context, client *api.Client) (Dashboard, error) {
	goals, err := client.Dashboard(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	pending, completed := progress.Split(goals)
	return Dashboard{
		Pending:        pending,
		Completed:      completed,
		ActiveGoals:    len(goals),
		CompletedCount: len(completed),
		RemainingCount: len(pending),
	}, nil
}

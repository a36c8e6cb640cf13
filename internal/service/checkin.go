package service

import (
	"context"

	"github.com/cmmeyer1800/accountabilidash/internal/api"
	"github.com/cmmeyer1800/accountabilidash/internal/model"
)

// CheckInInput describes one submission. A zero-value input is a quick
// check-in (empty payload); Value and Note make it a detailed one.
// WantCompletions mirrors an expanded per-goal submission list: when set,
// the list is re-fetched after a successful check-in.
type CheckInInput struct {
	Value           *float64
	Note            *string
	WantCompletions bool
}

// CheckInResult carries the recorded completion together with the refreshed
// aggregate state. Refreshes happen only after the check-in response
// resolves, so the result never mixes pre- and post-submission views.
type CheckInResult struct {
	Completion model.GoalCompletion
	// Goal is the refreshed dashboard row for this goal, when the server
	// still reports it; nil if the refreshed dashboard no longer lists it.
	Goal *model.GoalWithProgress
	// Completions is the refreshed period list, only when requested.
	Completions []model.GoalCompletion
}

// CheckIn submits a check-in and then refreshes the goal's progress (and
// the completions list, if requested), strictly in that order. On failure
// nothing is refreshed: already-rendered progress stays untouched and the
// error carries the user-facing message.
func CheckIn(ctx context.Context, client *api.Client, goalID string, in CheckInInput) (CheckInResult, error) {
	req := model.CheckInRequest{Value: in.Value, Note: in.Note}
	completion, err := client.CheckIn(ctx, goalID, req)
	if err != nil {
		return CheckInResult{}, err
	}

	result := CheckInResult{Completion: completion}

	goals, err := client.Dashboard(ctx)
	if err != nil {
		return result, err
	}
	for i := range goals {
		if goals[i].ID == goalID {
			result.Goal = &goals[i]
			break
		}
	}

	if in.WantCompletions {
		completions, err := client.ListCompletions(ctx, goalID)
		if err != nil {
			return result, err
		}
		result.Completions = completions
	}
	return result, nil
}

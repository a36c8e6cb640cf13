// Package model holds the wire types exchanged with the Accountabilidash
// API. The client does not own these shapes; it mirrors what the server
// sends and never recomputes server-derived fields.
package model

import (
	"fmt"
	"strings"
	"time"
)

type GoalType string

const (
	GoalTypePeriodic GoalType = "periodic"
	GoalTypeOneTime  GoalType = "one_time"
)

func (t GoalType) Valid() bool {
	return t == GoalTypePeriodic || t == GoalTypeOneTime
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

type ValueType string

const (
	ValueTypeNone    ValueType = "none"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeText    ValueType = "text"
)

func (v ValueType) Valid() bool {
	return v == ValueTypeNone || v == ValueTypeNumeric || v == ValueTypeText
}

// Date is a calendar date serialized as YYYY-MM-DD, the format the API uses
// for start_date, end_date, and period_start.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName prefers the full name and falls back to the email, matching
// the dashboard greeting.
func (u User) DisplayName() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return *u.FullName
	}
	return u.Email
}

type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalType    GoalType   `json:"goal_type"`
	Frequency   *Frequency `json:"frequency"`
	TargetCount int        `json:"target_count"`
	ValueType   ValueType  `json:"value_type"`
	ValueUnit   *string    `json:"value_unit"`
	StartDate   Date       `json:"start_date"`
	EndDate     *Date      `json:"end_date"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GoalWithProgress augments a goal with the server-computed progress for the
// current period. The client trusts both fields as supplied.
type GoalWithProgress struct {
	Goal
	PeriodCompletions int  `json:"period_completions"`
	IsCompleted       bool `json:"is_completed"`
}

type GoalCompletion struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goal_id"`
	CompletedAt time.Time `json:"completed_at"`
	PeriodStart Date      `json:"period_start"`
	Value       *float64  `json:"value"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type GoalCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	GoalType    GoalType   `json:"goal_type"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	TargetCount int        `json:"target_count,omitempty"`
	ValueType   ValueType  `json:"value_type,omitempty"`
	ValueUnit   *string    `json:"value_unit,omitempty"`
	StartDate   *Date      `json:"start_date,omitempty"`
	EndDate     *Date      `json:"end_date,omitempty"`
}

// Validate applies the same constraints the server enforces so obviously
// bad requests fail before the network call.
func (g GoalCreate) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !g.GoalType.Valid() {
		return fmt.Errorf("invalid goal type %q", g.GoalType)
	}
	if g.GoalType == GoalTypePeriodic {
		if g.Frequency == nil {
			return fmt.Errorf("periodic goals require a frequency")
		}
		if !g.Frequency.Valid() {
			return fmt.Errorf("invalid frequency %q", *g.Frequency)
		}
	} else if g.Frequency != nil {
		return fmt.Errorf("one-time goals cannot have a frequency")
	}
	if g.TargetCount < 0 {
		return fmt.Errorf("target count must be >= 1")
	}
	if g.ValueType != "" && !g.ValueType.Valid() {
		return fmt.Errorf("invalid value type %q", g.ValueType)
	}
	return nil
}

// GoalUpdate is a PATCH body: nil fields are omitted and left unchanged.
type GoalUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	GoalType    *GoalType  `json:"goal_type,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	TargetCount *int       `json:"target_count,omitempty"`
	ValueType   *ValueType `json:"value_type,omitempty"`
	ValueUnit   *string    `json:"value_unit,omitempty"`
	StartDate   *Date      `json:"start_date,omitempty"`
	EndDate     *Date      `json:"end_date,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

func (g GoalUpdate) Empty() bool {
	return g.Title == nil && g.Description == nil && g.GoalType == nil &&
		g.Frequency == nil && g.TargetCount == nil && g.ValueType == nil &&
		g.ValueUnit == nil && g.StartDate == nil && g.EndDate == nil &&
		g.IsActive == nil
}

type CheckInRequest struct {
	Value *float64 `json:"value,omitempty"`
	Note  *string  `json:"note,omitempty"`
}

type HealthStatus struct {
	Status string `json:"status"`
}

// Package model defines domain types for cfarm stats, projects and actions.
package model

// UserStats is the user's progress snapshot as reported by the server.
// It is replaced wholesale on every fetch or action response.
type UserStats struct {
	Balance           float64 `json:"balance"`
	Level             int     `json:"level"`
	Experience        int     `json:"experience"`
	NextLevel         int     `json:"next_level"`
	TotalHelp         float64 `json:"total_help"`
	CompletedProjects int     `json:"completed_projects"`
}

// TapResult is the /tap response: refreshed stats plus the reward just earned.
type TapResult struct {
	UserStats
	Reward float64 `json:"reward"`
	// HasTotals is false when the reply omitted total_help and
	// completed_projects. Those fields are then zero, not reported.
	HasTotals bool `json:"-"`
}

// ContributeResult is a successful /help_project response.
type ContributeResult struct {
	Success         bool    `json:"success"`
	NewBalance      float64 `json:"new_balance"`
	ProjectProgress float64 `json:"project_progress"`
	TotalHelp       float64 `json:"total_help"`
	Message         string  `json:"message,omitempty"`
}

// AFKResult is the /afk_earnings response. Message is set when nothing could
// be collected, for example before the passive income upgrade is bought.
type AFKResult struct {
	Earnings         float64 `json:"earnings"`
	TotalAFKEarnings float64 `json:"total_afk_earnings"`
	NewBalance       float64 `json:"new_balance"`
	Message          string  `json:"message,omitempty"`
}

// UpgradeResult is a successful /purchase_upgrade response.
type UpgradeResult struct {
	Message      string  `json:"message,omitempty"`
	NewBalance   float64 `json:"new_balance"`
	UpgradeLevel int     `json:"upgrade_level"`
	NextCost     float64 `json:"next_cost"`
}

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message to show the user.
type Notice struct {
	Message string
	Kind    NoticeKind
}

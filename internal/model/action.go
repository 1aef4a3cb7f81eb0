package model

import "time"

// ActionKind names a journaled user action.
type ActionKind string

const (
	ActionTap        ActionKind = "tap"
	ActionContribute ActionKind = "contribute"
	ActionAFK        ActionKind = "afk"
	ActionUpgrade    ActionKind = "upgrade"
)

// ActionRecord is one entry of the local action journal. ProjectID holds the
// project helped, or the upgrade bought for ActionUpgrade. Reward is the tap
// reward or the collected AFK earnings.
type ActionRecord struct {
	ID        string
	Kind      ActionKind
	ProjectID ProjectID
	Amount    float64
	Reward    float64
	OK        bool
	Message   string
	CreatedAt time.Time
}

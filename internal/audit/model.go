package audit

import (
	"docsign_web/internal/common"
)

// Action names an auth operation.
type Action string

const (
	ActionSignUp  Action = "sign_up"
	ActionSignIn  Action = "sign_in"
	ActionSignOut Action = "sign_out"
)

// Outcome of an auth operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one recorded auth action.
type Event struct {
	common.BaseModel
	Email     string  `gorm:"type:varchar(320);not null;index"`
	Action    Action  `gorm:"type:varchar(32);not null"`
	Outcome   Outcome `gorm:"type:varchar(16);not null"`
	Provider  string  `gorm:"type:varchar(32);not null"`
	Message   string  `gorm:"type:text"`
	RequestID string  `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for GORM.
func (Event) TableName() string {
	return "auth_events"
}

// EventResponse is the dashboard/API view of an Event.
type EventResponse struct {
	Action    Action  `json:"action"`
	Outcome   Outcome `json:"outcome"`
	Message   string  `json:"message,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToEventResponse converts an Event for display.
func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		Action:    e.Action,
		Outcome:   e.Outcome,
		Message:   e.Message,
		CreatedAt: e.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
}

// Label is a short human description of the action.
func (a Action) Label() string {
	switch a {
	case ActionSignUp:
		return "Sign up"
	case ActionSignIn:
		return "Sign in"
	case ActionSignOut:
		return "Sign out"
	default:
		return string(a)
	}
}

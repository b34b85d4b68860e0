package model

import "time"

// ActionFlag identifies the kind of change an admin log entry records.
type ActionFlag string

const (
	ActionAddition ActionFlag = "ADDITION"
	ActionChange   ActionFlag = "CHANGE"
	ActionDeletion ActionFlag = "DELETION"
)

// ActionLogEntry is one row of the admin console audit trail.
type ActionLogEntry struct {
	ID            int64      `json:"id"`
	UserID        int        `json:"user_id"`
	Action        ActionFlag `json:"action"`
	ObjectType    string     `json:"object_type"`
	ObjectID      string     `json:"object_id"`
	ObjectRepr    string     `json:"object_repr"`
	ChangeMessage string     `json:"change_message"`
	ActionTime    time.Time  `json:"action_time"`
}

package models

import "time"

// Exercise is a stored log entry. Date keeps the full timestamp; it is only
// truncated to a calendar day when filtered or displayed.
type Exercise struct {
	ID          string    `json:"-"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Date        time.Time `json:"date"`
}

// ExerciseEntry is the response for a newly logged exercise.
type ExerciseEntry struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"` // Format: Mon Jan 02 2006
}

// LogEntry is one exercise as shown in a user's log
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// ExerciseLog is the filtered exercise history of a single user
type ExerciseLog struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

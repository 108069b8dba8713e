package models

// User represents a user in the system
type User struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

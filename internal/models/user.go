package models

type User struct {
	ID           int64  `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"-"`
	Description  string `json:"description"`
}

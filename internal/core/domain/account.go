package domain

import "time"

// AccountID is the store-assigned identity of an account.
type AccountID int64

// Account is the durable identity record. ID is nil until the store assigns one.
type Account struct {
	ID           *AccountID `json:"id,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
}

// Session is the verified claim "this request acts as AccountID". It is
// decoded from a token on every request and never stored.
type Session struct {
	AccountID AccountID
	Expires   time.Time
	NotBefore time.Time
}

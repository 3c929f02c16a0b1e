package types

import "time"

// Payload is an encoded still ready to be uploaded as a file field.
type Payload struct {
	MIME string
	Data []byte
}

// AuthResult matches the JSON body returned by /faceid/signup/ and /faceid/login/
type AuthResult struct {
	Success     bool   `json:"success"`
	Name        string `json:"name,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"` // only sent by some backends on login
	StatusCode  int    `json:"-"`
}

// Attempt is one journaled submission.
type Attempt struct {
	ID         int64
	Action     string // "signup" or "login"
	Label      string
	Outcome    string
	StatusCode int
	Detail     string
	CreatedAt  time.Time
}

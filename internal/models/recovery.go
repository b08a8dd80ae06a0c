package models

// RecoveryState is the password-recovery challenge state held server-side
// between the forgot-password and verification steps. The code and the
// pending email are only meaningful together; Attempts counts wrong code
// submissions within this state's lifetime.
type RecoveryState struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

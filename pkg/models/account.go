package models

// Account is a registered identity. Password-less accounts (federated
// sign-in) have an empty PasswordHash and a non-empty Provider.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`
	Provider     string `json:"provider,omitempty"`
	CreatedTS    int64  `json:"created_ts,omitempty"`
}

// Identifier returns the identifier used to name this account within
// participant sets and message senders: the email when present, the
// account id otherwise.
func (a *Account) Identifier() string {
	if a.Email != "" {
		return a.Email
	}
	return a.ID
}

// UserRecord is a directory entry mapping an account to its email.
type UserRecord struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

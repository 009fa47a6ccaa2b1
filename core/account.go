package core

// Account represents a registered credential record.
//
// It is persisted as JSON under UserKey(Username). Password holds whatever the
// configured PasswordHandler produced; with the default handler that is the
// password exactly as typed.
type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the public view of an Account
type Profile struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

func (a *Account) Profile() Profile {
	return Profile{Username: a.Username, Email: a.Email}
}

// SessionData answers "who is logged in" for navigation and greeting text
type SessionData struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
}

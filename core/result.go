package core

import "errors"

// Result is what the views display: a success flag and a message meant for
// the user.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// User-facing messages
const (
	MsgRegistered         = "Registration successful!"
	MsgLoggedIn           = "Login successful!"
	MsgLoggedOut          = "Logged out."
	MsgDuplicateUsername  = "Username already exists. Please choose a different one."
	MsgInvalidCredentials = "Invalid username or password."
	MsgFieldsRequired     = "All fields are required."
	MsgCredentialsNeeded  = "Username and password are required."
	MsgInvalidEmail       = "Please enter a valid email address."
	MsgPasswordTooShort   = "Password must be at least 6 characters long."
	MsgInvalidRequest     = "Invalid request."
	MsgInvalidEncoding    = "Fields contain invalid characters."
	MsgTryAgain           = "Something went wrong. Please try again."
)

// Succeeded builds a successful Result
func Succeeded(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Failed builds a failed Result whose message is safe to show to the user.
// Unknown errors collapse to a generic retry message so backend details never
// reach the client.
func Failed(err error) *Result {
	return &Result{Success: false, Message: MessageFor(err)}
}

// MessageFor maps an error to its user-facing message
func MessageFor(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return MsgDuplicateUsername
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrFieldsRequired):
		return MsgFieldsRequired
	case errors.Is(err, ErrCredentialsRequired):
		return MsgCredentialsNeeded
	case errors.Is(err, ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, ErrPasswordTooShort):
		return MsgPasswordTooShort
	case errors.Is(err, ErrInvalidRequestBody):
		return MsgInvalidRequest
	case errors.Is(err, ErrInvalidEncoding):
		return MsgInvalidEncoding
	default:
		return MsgTryAgain
	}
}

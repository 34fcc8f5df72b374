package domain

// LoginRequest is a sign-in attempt. The email doubles as the username.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginState is the result of a login attempt.
type LoginState uint8

const (
	LoggedIn LoginState = iota + 1
	InvalidCredentials
	EmailNotVerified
	ServerError
)

func (s LoginState) String() string {
	switch s {
	case LoggedIn:
		return "LOGGED_IN"
	case InvalidCredentials:
		return "INVALID_CREDENTIALS"
	case EmailNotVerified:
		return "EMAIL_NOT_VERIFIED"
	case ServerError:
		return "SERVER_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Message is the user-facing text for the state.
func (s LoginState) Message() string {
	switch s {
	case LoggedIn:
		return "Login successful."
	case InvalidCredentials:
		return "Invalid credentials provided."
	case EmailNotVerified:
		return "Email not verified. Please check your email for verification link or request a new one."
	default:
		return "An error occurred while processing your request. Please try again later."
	}
}

// LoginStatus carries tokens only when State is LoggedIn, and then
// Tokens.AccessToken is never empty.
type LoginStatus struct {
	State  LoginState
	Tokens *TokenPair
}

package domain

// RegistrationRequest is a sign-up attempt. The password only ever lives in
// memory for the duration of the attempt.
type RegistrationRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegistrationOutcome is the result of a registration attempt.
type RegistrationOutcome uint8

const (
	// UserExists means an account with that username or email is already
	// known, or a creation for the same email is in flight.
	UserExists RegistrationOutcome = iota + 1
	// InitiatedAsyncProcess means account creation was handed to a background
	// worker. It says nothing about whether creation will succeed.
	InitiatedAsyncProcess
	// ProviderError means the attempt could not be decided.
	ProviderError
)

func (o RegistrationOutcome) String() string {
	switch o {
	case UserExists:
		return "USER_EXISTS"
	case InitiatedAsyncProcess:
		return "INITIATED_ASYNC_PROCESS"
	case ProviderError:
		return "PROVIDER_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Message is the user-facing text for the outcome.
func (o RegistrationOutcome) Message() string {
	switch o {
	case UserExists:
		return "Can't create an account. Please use another email address."
	case InitiatedAsyncProcess:
		return "Account creation request received. Check your email for next steps."
	default:
		return "Server Error/Authentication Error."
	}
}

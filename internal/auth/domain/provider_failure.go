package domain

// ProviderFailure classifies why a call to the identity provider failed.
type ProviderFailure uint8

const (
	// NoFailure is the zero value.
	NoFailure ProviderFailure = iota
	// ConnectionFailed means the provider could not be reached in time.
	ConnectionFailed
	// ProtocolError means the provider answered with something unexpected.
	ProtocolError
	// UnknownFailure covers everything else.
	UnknownFailure
)

func (e ProviderFailure) String() string {
	switch e {
	case NoFailure:
		return "OK"
	case ConnectionFailed:
		return "AUTH_PROVIDER_CONNECTION_FAILED"
	case ProtocolError:
		return "AUTH_PROVIDER_PROTOCOL_ERROR"
	default:
		return "AUTH_PROVIDER_UNKNOWN_ERROR"
	}
}

// Message is the human-readable form. It never carries provider text.
func (e ProviderFailure) Message() string {
	switch e {
	case NoFailure:
		return "No error."
	case ConnectionFailed:
		return "Failed to connect to the authentication provider."
	case ProtocolError:
		return "The authentication provider returned an unexpected response."
	default:
		return "An unknown error occurred with the authentication provider."
	}
}

package domain

// TokenPair is what a successful password grant hands back to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string // optional
	TokenType    string // typically "Bearer"
	ExpiresIn    int    // seconds until the access token expires

	// Subject is the "sub" claim of the access token, i.e. the account id.
	Subject string
}

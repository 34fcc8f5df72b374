/*
Package keycloak is a small REST client for the parts of Keycloak the auth
service relies on: the admin users API and the OpenID Connect token endpoint.

# Client and admin tokens

A Client carries the realm and the confidential client used for end-user
password grants. Admin calls are authorised with a bearer token obtained from
an AdminTokenSource, which caches the token until shortly before it expires:

	kc := keycloak.NewClient(keycloak.Config{
		BaseURL:      "http://localhost:8081",
		Realm:        "betterbank",
		ClientID:     "betterbank-app",
		ClientSecret: secret,
		AdminClientID: "admin-cli",
		AdminUsername: "admin",
		AdminPassword: adminPassword,
	})

	users, err := kc.FindUsersByEmail(ctx, "johndoe@test.com")

# Errors

Every failure is returned as an *Error tagged with a Kind. KindTransport means
the request never produced a response, KindStatus means Keycloak answered with
an unexpected status (Code and Description carry the OAuth2 error fields when
present), and KindDecode means the response body could not be parsed.
Use errors.As to inspect them.
*/
package keycloak

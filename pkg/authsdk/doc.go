/*
Package authsdk provides a client SDK for the accounts service.

# Overview

Client wraps the HTTP API: registration, login, fetching the current account
and the health probes. Errors returned by the service surface as *APIError and
can be compared with errors.Is against the predefined errors:

	client := authsdk.NewClient("https://accounts.example.com")

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if errors.Is(err, authsdk.ErrUsernameTaken) {
		// pick another name
	}

	login, err := client.Login(ctx, "alice", "secret123")
	if err != nil {
		return err
	}

	me, err := client.Me(ctx, login.Token)

The request and response types are shared with the server handlers, so the
JSON shape of the API is defined in one place.
*/
package authsdk

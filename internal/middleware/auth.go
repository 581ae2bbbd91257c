package middleware

import (
	"strings"

	"github.com/pkg/errors"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/pkg/apperr"
)

// Authenticate resolves the bearer token to a user id and stores it in the
// request context under auth.Key.
func Authenticate(a *auth.Auth) web.Middleware {
	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(c *web.Context) error {

			// Expecting: Bearer <token>
			token, ok := BearerToken(c.Request.Header.Get("authorization"))
			if !ok {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(apperr.Unauthenticated(err))
			}

			userID, err := a.Resolve(c.Ctx, token)
			if err != nil {
				return c.RespondError(err)
			}

			// Add the caller to the context so that controllers can retrieve it.
			c.Ctx = auth.WithUserID(c.Ctx, userID)

			// Call the next handler.
			return handler(c)
		}

		return h
	}

	return m
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return parts[1], true
}

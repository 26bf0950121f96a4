package accounts

import (
	"github.com/gofiber/fiber/v2"
)

// NewSessionMiddleware returns a handler that resolves the session cookie,
// loads the account, and stores both in the request's user context. Requests
// without a usable session are redirected to redirectTo with the original
// path in the next query parameter.
func NewSessionMiddleware(sessions SessionManager, users Users, redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.Current(c)
		if err != nil {
			return c.Redirect(redirectTo + "?next=" + c.Path())
		}

		userID, err := session.GetUserUUID()
		if err != nil {
			sessions.End(c)
			return c.Redirect(redirectTo)
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			sessions.End(c)
			return c.Redirect(redirectTo)
		}

		ctx := WithSessionContext(c.UserContext(), session)
		c.SetUserContext(WithContext(ctx, user))

		return c.Next()
	}
}

// CurrentUser returns the account loaded by NewSessionMiddleware, if any.
func CurrentUser(c *fiber.Ctx) (*User, bool) {
	return FromContext(c.UserContext())
}

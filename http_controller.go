package accounts

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// AccountActivatedCookie is the one-shot client flag set after a successful
// activation and consumed by the user page on its next render.
const AccountActivatedCookie = "accountActivated"

type AccountsControllerRoutes struct {
	SignIn            string
	SignUp            string
	SignOut           string
	EmailConfirmation string
	ActivateAccount   string
	User              string
}

type AccountsControllerViews struct {
	SignIn            string
	SignUp            string
	EmailConfirmation string
	User              string
}

// AccountsController exposes the self-service account lifecycle over HTTP:
// sign-in, sign-up, email confirmation, account activation, and sign-out.
type AccountsController struct {
	Debug    bool
	Logger   Logger
	Users    Users
	Verifier *EmailVerifier
	Sessions SessionManager
	Routes   *AccountsControllerRoutes
	Views    *AccountsControllerViews
}

type AccountsControllerOption func(*AccountsController) *AccountsController

func WithControllerUsers(users Users) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Users = users
		return c
	}
}

func WithControllerVerifier(verifier *EmailVerifier) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Verifier = verifier
		return c
	}
}

func WithControllerSessions(sessions SessionManager) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Sessions = sessions
		return c
	}
}

func WithControllerLogger(logger Logger) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Logger = logger
		return c
	}
}

func NewAccountsController(opts ...AccountsControllerOption) *AccountsController {
	c := &AccountsController{
		Logger: defLogger{},
		Routes: &AccountsControllerRoutes{
			SignIn:            "/sign-in",
			SignUp:            "/sign-up",
			SignOut:           "/sign-out",
			EmailConfirmation: "/email-confirmation",
			ActivateAccount:   "/activate-account",
			User:              "/user",
		},
		Views: &AccountsControllerViews{
			SignIn:            "sign-in",
			SignUp:            "sign-up",
			EmailConfirmation: "email-confirmation",
			User:              "user",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Users == nil {
		panic("Missing Users repository in accounts controller...")
	}

	if c.Verifier == nil {
		panic("Missing EmailVerifier in accounts controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionManager in accounts controller...")
	}

	return c
}

// RegisterAccountRoutes mounts the full route set on the given router.
func RegisterAccountRoutes(app fiber.Router, opts ...AccountsControllerOption) *AccountsController {
	controller := NewAccountsController(opts...)

	app.Get(controller.Routes.SignIn, controller.SignInShow)
	app.Post(controller.Routes.SignIn, controller.SignInPost)

	app.Get(controller.Routes.SignUp, controller.SignUpShow)
	app.Post(controller.Routes.SignUp, controller.SignUpPost)

	app.Get(controller.Routes.EmailConfirmation, controller.EmailConfirmationShow)
	app.Get(controller.Routes.ActivateAccount, controller.ActivateAccount)

	app.Get(controller.Routes.SignOut, controller.SignOut)

	requireUser := NewSessionMiddleware(controller.Sessions, controller.Users, controller.Routes.SignIn)
	app.Get(controller.Routes.User, requireUser, controller.UserShow)

	return controller
}

func (a *AccountsController) SignInShow(c *fiber.Ctx) error {
	if _, err := a.Sessions.Current(c); err == nil {
		return c.Redirect(a.Routes.User)
	}

	return c.Render(a.Views.SignIn, fiber.Map{
		"redirected": c.Query("next"),
	})
}

func (a *AccountsController) SignInPost(c *fiber.Ctx) error {
	pipeline := NewSignIn(a.Users, "", "")

	if err := c.BodyParser(pipeline); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []string{"Failed to parse form."},
		})
	}

	if a.Debug {
		fmt.Println("======= SIGN IN ======")
		fmt.Println(print.MaybePrettyJSON(pipeline))
		fmt.Println("======================")
	}

	pipeline.ValidateData()

	if len(pipeline.Errors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": pipeline.Errors,
		})
	}

	if err := pipeline.ValidateUser(c.UserContext()); err != nil {
		return err
	}

	if len(pipeline.Errors) > 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"errors": pipeline.Errors,
		})
	}

	if err := a.Sessions.Establish(c, pipeline.User); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *AccountsController) SignUpShow(c *fiber.Ctx) error {
	if _, err := a.Sessions.Current(c); err == nil {
		return c.Redirect(a.Routes.User)
	}

	return c.Render(a.Views.SignUp, fiber.Map{})
}

func (a *AccountsController) SignUpPost(c *fiber.Ctx) error {
	pipeline := NewSignUp(a.Users, "", "", "")

	if err := c.BodyParser(pipeline); err != nil {
		a.Logger.Error("sign up parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []string{"Failed to parse form."},
		})
	}

	pipeline.ValidateData()

	if len(pipeline.Errors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": pipeline.Errors,
		})
	}

	if err := pipeline.ValidateUser(c.UserContext()); err != nil {
		return err
	}

	if len(pipeline.Errors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": pipeline.Errors,
		})
	}

	user, err := a.Users.Create(c.UserContext(), pipeline.User)
	if err != nil {
		// Two racing registrations can both pass the uniqueness probes; the
		// datastore conflict is still a validation outcome.
		if pipeline.AbsorbConflict(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"errors": pipeline.Errors,
			})
		}
		return err
	}

	if err := a.Verifier.IssueAndSend(c.UserContext(), user); err != nil {
		a.Logger.Error("verification dispatch failed", "error", err, "user_id", user.ID.String())
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *AccountsController) EmailConfirmationShow(c *fiber.Ctx) error {
	email := c.Query("email")

	user, err := a.Users.GetByEmail(c.UserContext(), email)
	if err != nil || user.EmailConfirmed {
		return c.Redirect(a.Routes.SignIn)
	}

	return c.Render(a.Views.EmailConfirmation, fiber.Map{
		"email": email,
	})
}

func (a *AccountsController) ActivateAccount(c *fiber.Ctx) error {
	token := c.Query("token")

	result, err := a.Verifier.ResolveActivation(c.UserContext(), token)
	if err != nil {
		if IsTokenInvalid(err) {
			return c.Redirect(a.Routes.SignUp)
		}
		return err
	}

	switch result.Status {
	case ActivationUserNotFound:
		return c.Redirect(a.Routes.SignUp)
	case ActivationAlreadyConfirmed:
		return c.Redirect(a.Routes.SignIn)
	}

	if err := a.Sessions.Establish(c, result.User); err != nil {
		return err
	}

	// Readable by the client so the next page view can show a one-shot
	// "account activated" notice.
	c.Cookie(&fiber.Cookie{
		Name:  AccountActivatedCookie,
		Value: "true",
	})

	return c.Redirect(a.Routes.User)
}

func (a *AccountsController) SignOut(c *fiber.Ctx) error {
	a.Sessions.End(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (a *AccountsController) UserShow(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.Redirect(a.Routes.SignIn)
	}

	activated := c.Cookies(AccountActivatedCookie)
	if activated != "" {
		c.Cookie(&fiber.Cookie{
			Name:    AccountActivatedCookie,
			Value:   "",
			Expires: expiredCookieTime(),
		})
	}

	return c.Render(a.Views.User, fiber.Map{
		"user":              user,
		"account_activated": activated,
	})
}

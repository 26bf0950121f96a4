package accounts

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "accounts.user.register" }

// RegisterUserHandler runs the sign-up pipeline and persists the account in
// a transaction, then dispatches the verification email. Intended for
// programmatic registration (imports, admin tooling) where no HTTP request
// is involved.
type RegisterUserHandler struct {
	repo     RepositoryManager
	verifier *EmailVerifier
}

func NewRegisterUserHandler(repo RepositoryManager, verifier *EmailVerifier) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:     repo,
		verifier: verifier,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	signup := NewSignUp(h.repo.Users(), getUsername(event.Username, event.Email), event.Email, event.Password)

	signup.ValidateData()
	if len(signup.Errors) == 0 {
		if err := signup.ValidateUser(ctx); err != nil {
			return err
		}
	}

	if len(signup.Errors) > 0 {
		return goerrors.New("user registration rejected", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"errors": signup.Errors})
	}

	user := signup.User
	user.FirstName = event.FirstName
	user.LastName = event.LastName

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Users().CreateTx(ctx, tx, user)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}
		user = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return h.verifier.IssueAndSend(ctx, user)
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

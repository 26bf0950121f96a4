package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// SignIn validates a credential check in two stages. Unlike sign-up it
// short-circuits: any credential failure yields the single generic message
// so an unknown email is indistinguishable from a wrong password.
type SignIn struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`

	Errors []string `json:"errors,omitempty"`
	User   *User    `json:"-"`

	users Users
}

func NewSignIn(users Users, email, password string) *SignIn {
	return &SignIn{
		users:    users,
		Email:    email,
		Password: password,
	}
}

// ValidateData runs the presence checks. Field order is fixed: email,
// password.
func (s *SignIn) ValidateData() {
	if s.Email == "" {
		s.Errors = append(s.Errors, "Email is required.")
	}

	if s.Password == "" {
		s.Errors = append(s.Errors, "Password is required.")
	}
}

// ValidateUser looks the account up by email and verifies the password.
// Unknown email, mismatched password, and inactive accounts all produce the
// same "Invalid credentials." message. On success s.User holds the
// authenticated account.
func (s *SignIn) ValidateUser(ctx context.Context) error {
	user, err := s.users.GetByEmail(ctx, s.Email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during sign in")
		}
		user = nil
	}

	if user != nil {
		if err := ComparePasswordAndHash(s.Password, user.PasswordHash); err != nil {
			user = nil
		} else if !user.CanAuthenticate() {
			user = nil
		}
	}

	if user == nil {
		s.Errors = append(s.Errors, "Invalid credentials.")
		return nil
	}

	s.User = user

	return nil
}

package accounts

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// SignUp validates a registration request in two stages. ValidateData runs
// the presence checks; ValidateUser builds the candidate account and runs
// the stateful checks. Errors accumulate in order and are meant to be shown
// to the user verbatim. The candidate is never persisted here: User is set
// only when every check passed, and saving it is the caller's job.
type SignUp struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`

	Errors []string `json:"errors,omitempty"`
	User   *User    `json:"-"`

	users Users
}

func NewSignUp(users Users, username, email, password string) *SignUp {
	return &SignUp{
		users:    users,
		Username: username,
		Email:    email,
		Password: password,
	}
}

// ValidateData runs the presence checks. Field order is fixed: username,
// email, password.
func (s *SignUp) ValidateData() {
	if s.Username == "" {
		s.Errors = append(s.Errors, "Username is required.")
	}

	if s.Email == "" {
		s.Errors = append(s.Errors, "Email is required.")
	}

	if s.Password == "" {
		s.Errors = append(s.Errors, "Password is required.")
	}
}

// ValidateUser builds the candidate user and runs the entity checks
// (username uniqueness, email format and uniqueness) followed by the
// password policy, which contributes at most one message. When everything
// passes the password is hashed and the unsaved candidate is exposed as
// s.User with both lifecycle flags forced off.
//
// The returned error reports infrastructure faults only; validation
// outcomes land in s.Errors.
func (s *SignUp) ValidateUser(ctx context.Context) error {
	candidate := &User{
		Username: s.Username,
		Email:    s.Email,
	}

	if err := s.validateEntity(ctx, candidate); err != nil {
		return err
	}

	if err := ValidatePasswordStrength(s.Password, s.Username, s.Email); err != nil {
		s.Errors = append(s.Errors, err.Error())
	}

	if len(s.Errors) > 0 {
		return nil
	}

	hash, err := HashPassword(s.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	candidate.PasswordHash = hash
	candidate.IsActive = false
	candidate.EmailConfirmed = false

	s.User = candidate

	return nil
}

func (s *SignUp) validateEntity(ctx context.Context, candidate *User) error {
	taken, err := s.users.UsernameTaken(ctx, candidate.Username)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
	}
	if taken {
		s.Errors = append(s.Errors, "A user with that username already exists.")
	}

	if err := validation.Validate(candidate.Email, is.Email); err != nil {
		s.Errors = append(s.Errors, "Enter a valid email address.")
		return nil
	}

	taken, err = s.users.EmailTaken(ctx, candidate.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
	}
	if taken {
		s.Errors = append(s.Errors, "A user with that email already exists.")
	}

	return nil
}

// AbsorbConflict folds a late datastore uniqueness violation back into the
// pipeline's error list. Two simultaneous registrations can both pass the
// uniqueness probes; when the datastore then rejects the insert the failure
// is a validation outcome, not a fault. Reports whether the error was
// recognized as a uniqueness conflict.
func (s *SignUp) AbsorbConflict(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !isConflict(err) {
		return false
	}

	matched := false
	if strings.Contains(msg, "username") {
		s.Errors = append(s.Errors, "A user with that username already exists.")
		matched = true
	}
	if strings.Contains(msg, "email") {
		s.Errors = append(s.Errors, "A user with that email already exists.")
		matched = true
	}

	if matched {
		s.User = nil
	}

	return matched
}

func isConflict(err error) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryConflict
	}
	return false
}

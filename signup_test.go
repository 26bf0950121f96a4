package accounts_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	accounts "github.com/taliesin-labs/go-accounts"
)

func TestSignUpValidateData(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     []string
	}{
		{
			name:     "All fields present",
			username: "u",
			email:    "u@e.com",
			password: "secret1234",
			want:     nil,
		},
		{
			name:     "All fields missing",
			username: "",
			email:    "",
			password: "",
			want: []string{
				"Username is required.",
				"Email is required.",
				"Password is required.",
			},
		},
		{
			name:     "Missing username",
			username: "",
			email:    "u@e.com",
			password: "secret1234",
			want:     []string{"Username is required."},
		},
		{
			name:     "Missing email and password",
			username: "u",
			email:    "",
			password: "",
			want: []string{
				"Email is required.",
				"Password is required.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signup := accounts.NewSignUp(&MockUsers{}, tt.username, tt.email, tt.password)
			signup.ValidateData()
			assert.Equal(t, tt.want, signup.Errors)
		})
	}
}

func TestSignUpValidateUserSuccess(t *testing.T) {
	users := new(MockUsers)
	users.On("UsernameTaken", mock.Anything, "u").Return(false, nil)
	users.On("EmailTaken", mock.Anything, "u@e.com").Return(false, nil)

	signup := accounts.NewSignUp(users, "u", "u@e.com", "secret1234")

	err := signup.ValidateUser(context.Background())
	require.NoError(t, err)
	require.Empty(t, signup.Errors)

	require.NotNil(t, signup.User)
	assert.Equal(t, "u", signup.User.Username)
	assert.Equal(t, "u@e.com", signup.User.Email)
	assert.False(t, signup.User.IsActive)
	assert.False(t, signup.User.EmailConfirmed)

	assert.NotEmpty(t, signup.User.PasswordHash)
	assert.NotEqual(t, "secret1234", signup.User.PasswordHash)
	assert.NoError(t, accounts.ComparePasswordAndHash("secret1234", signup.User.PasswordHash))

	users.AssertExpectations(t)
}

func TestSignUpValidateUserDuplicateAccount(t *testing.T) {
	users := new(MockUsers)
	users.On("UsernameTaken", mock.Anything, "username").Return(true, nil)
	users.On("EmailTaken", mock.Anything, "user@email.com").Return(true, nil)

	signup := accounts.NewSignUp(users, "username", "user@email.com", "1234")

	err := signup.ValidateUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A user with that username already exists.",
		"A user with that email already exists.",
		"This password is too short. It must contain at least 8 characters.",
	}, signup.Errors)
	assert.Nil(t, signup.User)
}

func TestSignUpValidateUserInvalidEmailSkipsUniquenessProbe(t *testing.T) {
	users := new(MockUsers)
	users.On("UsernameTaken", mock.Anything, "someone").Return(false, nil)

	signup := accounts.NewSignUp(users, "someone", "not-an-email", "secret1234")

	err := signup.ValidateUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Enter a valid email address."}, signup.Errors)
	assert.Nil(t, signup.User)

	users.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything)
}

func TestSignUpValidateUserWeakPasswordSingleMessage(t *testing.T) {
	users := new(MockUsers)
	users.On("UsernameTaken", mock.Anything, "someone").Return(false, nil)
	users.On("EmailTaken", mock.Anything, "person@example.com").Return(false, nil)

	// both too short and entirely numeric, only the first rule reports
	signup := accounts.NewSignUp(users, "someone", "person@example.com", "1234")

	err := signup.ValidateUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"This password is too short. It must contain at least 8 characters.",
	}, signup.Errors)
	assert.Nil(t, signup.User)
}

func TestSignUpValidateUserProbeFailure(t *testing.T) {
	users := new(MockUsers)
	users.On("UsernameTaken", mock.Anything, "someone").Return(false, errors.New("connection refused"))

	signup := accounts.NewSignUp(users, "someone", "person@example.com", "secret1234")

	err := signup.ValidateUser(context.Background())
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryInternal, richErr.Category)

	assert.Empty(t, signup.Errors)
	assert.Nil(t, signup.User)
}

func TestSignUpAbsorbConflict(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   bool
		errors []string
	}{
		{
			name: "Username unique violation",
			err:  errors.New(`UNIQUE constraint failed: users.username`),
			want: true,
			errors: []string{
				"A user with that username already exists.",
			},
		},
		{
			name: "Email unique violation",
			err:  errors.New(`duplicate key value violates unique constraint "users_email_key"`),
			want: true,
			errors: []string{
				"A user with that email already exists.",
			},
		},
		{
			name: "Conflict category",
			err: goerrors.New("username conflict", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict),
			want: true,
			errors: []string{
				"A user with that username already exists.",
			},
		},
		{
			name:   "Unrelated failure",
			err:    errors.New("connection refused"),
			want:   false,
			errors: nil,
		},
		{
			name:   "Nil error",
			err:    nil,
			want:   false,
			errors: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signup := accounts.NewSignUp(&MockUsers{}, "username", "user@email.com", "secret1234")
			signup.User = &accounts.User{}

			got := signup.AbsorbConflict(tt.err)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.errors, signup.Errors)

			if tt.want {
				assert.Nil(t, signup.User)
			} else {
				assert.NotNil(t, signup.User)
			}
		})
	}
}

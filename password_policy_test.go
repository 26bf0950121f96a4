package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	accounts "github.com/taliesin-labs/go-accounts"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		email    string
		want     string
	}{
		{
			name:     "Acceptable password",
			password: "secret1234",
			username: "u",
			email:    "u@e.com",
			want:     "",
		},
		{
			name:     "Too short",
			password: "1234",
			username: "username",
			email:    "user@email.com",
			want:     "This password is too short. It must contain at least 8 characters.",
		},
		{
			name:     "Exactly at minimum length",
			password: "ab!de#gh",
			username: "someone",
			email:    "someone@example.com",
			want:     "",
		},
		{
			name:     "Too similar to username",
			password: "myusername99",
			username: "myusername",
			email:    "person@example.com",
			want:     "The password is too similar to the username.",
		},
		{
			name:     "Username contains password",
			password: "marga",
			username: "margarita",
			email:    "m@example.com",
			want:     "The password is too similar to the username.",
		},
		{
			name:     "Too similar to email address",
			password: "person@example.com1",
			username: "someone",
			email:    "person@example.com",
			want:     "The password is too similar to the email address.",
		},
		{
			name:     "Too similar to email local part",
			password: "xyzperson",
			username: "someone",
			email:    "person@example.com",
			want:     "The password is too similar to the email address.",
		},
		{
			name:     "Similarity is case insensitive",
			password: "MyUserName99",
			username: "myusername",
			email:    "person@example.com",
			want:     "The password is too similar to the username.",
		},
		{
			name:     "Short attributes never trigger similarity",
			password: "u",
			username: "u",
			email:    "u@e.com",
			want:     "This password is too short. It must contain at least 8 characters.",
		},
		{
			name:     "Common password",
			password: "password123",
			username: "someone",
			email:    "person@example.com",
			want:     "This password is too common.",
		},
		{
			name:     "Common password check is case insensitive",
			password: "PASSWORD123",
			username: "someone",
			email:    "person@example.com",
			want:     "This password is too common.",
		},
		{
			name:     "Entirely numeric",
			password: "937462859104",
			username: "someone",
			email:    "person@example.com",
			want:     "This password is entirely numeric.",
		},
		{
			name:     "Similarity outranks length",
			password: "usr",
			username: "usr",
			email:    "usr@example.com",
			want:     "The password is too similar to the username.",
		},
		{
			name:     "Length outranks numeric",
			password: "1234567",
			username: "someone",
			email:    "person@example.com",
			want:     "This password is too short. It must contain at least 8 characters.",
		},
		{
			name:     "Common outranks numeric",
			password: "12345678",
			username: "someone",
			email:    "person@example.com",
			want:     "This password is too common.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounts.ValidatePasswordStrength(tt.password, tt.username, tt.email)

			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			assert.EqualError(t, err, tt.want)
		})
	}
}

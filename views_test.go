package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	accounts "github.com/taliesin-labs/go-accounts"
)

func TestDisplayNameHelper(t *testing.T) {
	helpers := accounts.TemplateHelpers()

	displayName, ok := helpers["display_name"].(func(any) string)
	assert.True(t, ok)

	assert.Equal(t, "Ada Lovelace", displayName(&accounts.User{FirstName: "Ada", LastName: "Lovelace"}))
	assert.Equal(t, "Ada", displayName(&accounts.User{FirstName: "Ada"}))
	assert.Equal(t, "u", displayName(&accounts.User{Username: "u"}))
	assert.Equal(t, "", displayName(nil))
	assert.Equal(t, "", displayName("not a user"))
}

func TestIsAuthenticatedHelper(t *testing.T) {
	helpers := accounts.TemplateHelpers()

	isAuthenticated, ok := helpers["is_authenticated"].(func(any) bool)
	assert.True(t, ok)

	assert.True(t, isAuthenticated(&accounts.User{IsActive: true}))
	assert.False(t, isAuthenticated(&accounts.User{}))
	assert.False(t, isAuthenticated(nil))
}

func TestTemplateHelpersWithUser(t *testing.T) {
	user := &accounts.User{Username: "u"}

	helpers := accounts.TemplateHelpersWithUser(user)
	assert.Same(t, user, helpers[accounts.TemplateUserKey])
}

package accounts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
)

var TemplateUserKey = "current_user"

// NewViewEngine builds a django template engine rooted at dir, preloaded with
// the account template helpers.
//
// Usage:
//
//	engine := accounts.NewViewEngine("./templates")
//	app := fiber.New(fiber.Config{Views: engine})
func NewViewEngine(dir string) *django.Engine {
	engine := django.New(dir, ".html")

	for name, fn := range TemplateHelpers() {
		engine.AddFunc(name, fn)
	}

	return engine
}

// TemplateHelpers returns functions and data meant to be registered on the
// view engine used alongside the accounts controller.
//
// In templates:
//
//	{% if current_user %}
//	{% if is_authenticated(current_user) %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"display_name":     displayName,
	}
}

// TemplateHelpersWithUser returns the template helpers with a specific user
// bound as current_user, for injection into a render's global context.
func TemplateHelpersWithUser(user *User) map[string]any {
	helpers := TemplateHelpers()
	helpers[TemplateUserKey] = user
	return helpers
}

func isAuthenticated(user any) bool {
	u, ok := user.(*User)
	if !ok {
		return false
	}
	return u.CanAuthenticate()
}

func displayName(user any) string {
	u, ok := user.(*User)
	if !ok || u == nil {
		return ""
	}

	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}

	return u.Username
}

var _ fiber.Views = (*django.Engine)(nil)

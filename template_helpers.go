package auth

import (
	"github.com/goliatone/go-router"
)

var (
	TemplateUserKey          = "current_user"
	TemplateAuthenticatedKey = "is_authenticated"
)

// TemplateData returns the view variables describing the current user:
//
//	{% if is_authenticated %}
//	  {{ current_user.email }}
//	{% endif %}
func TemplateData(user *User) router.ViewContext {
	data := router.ViewContext{
		TemplateUserKey:          nil,
		TemplateAuthenticatedKey: false,
	}

	if user != nil {
		data[TemplateUserKey] = user.Profile()
		data[TemplateAuthenticatedKey] = true
	}

	return data
}

// MergeTemplateData adds the current user variables to data. Keys already
// in data win.
func MergeTemplateData(ctx router.Context, data router.ViewContext) router.ViewContext {
	user, _ := CurrentUser(ctx)
	return TemplateData(user).Update(data)
}

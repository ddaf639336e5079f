package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-router"
	auth "github.com/goliatone/go-user-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateData(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		data := auth.TemplateData(nil)
		assert.Nil(t, data[auth.TemplateUserKey])
		assert.Equal(t, false, data[auth.TemplateAuthenticatedKey])
	})

	t.Run("with user", func(t *testing.T) {
		user := &auth.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "hash"}
		data := auth.TemplateData(user)

		assert.Equal(t, true, data[auth.TemplateAuthenticatedKey])

		profile, ok := data[auth.TemplateUserKey].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "ana@example.com", profile["email"])
		assert.NotContains(t, profile, "password_hash")
	})
}

func TestMergeTemplateData(t *testing.T) {
	user := &auth.User{ID: uuid.New(), Email: "ana@example.com"}

	var anonymous, signedIn router.ViewContext

	srv := newRouterApp()
	srv.Router().Get("/anonymous", func(c router.Context) error {
		anonymous = auth.MergeTemplateData(c, router.ViewContext{"title": "Log in"})
		return c.NoContent(http.StatusNoContent)
	})
	srv.Router().Get("/signed-in", func(c router.Context) error {
		c.Locals(auth.LocalsUserKey, user)
		signedIn = auth.MergeTemplateData(c, router.ViewContext{auth.TemplateUserKey: "override"})
		return c.NoContent(http.StatusNoContent)
	})

	for _, path := range []string{"/anonymous", "/signed-in"} {
		_, err := srv.WrappedRouter().Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
	}

	assert.Equal(t, "Log in", anonymous["title"])
	assert.Equal(t, false, anonymous[auth.TemplateAuthenticatedKey])
	assert.Nil(t, anonymous[auth.TemplateUserKey])

	assert.Equal(t, true, signedIn[auth.TemplateAuthenticatedKey])
	assert.Equal(t, "override", signedIn[auth.TemplateUserKey])
}

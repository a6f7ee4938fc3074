package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

// AdminLogin exchanges admin credentials for a bearer token. The
// upstream endpoint expects an OAuth2 password-grant form body.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*Token, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	var token Token
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", form: form}, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing access token")
	}
	return &token, nil
}

package authui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"context-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignUpForm(t *testing.T) {
	form := url.Values{"email": {"  a@example.com "}, "password": {" pass word "}, "name": {"Ada"}}
	r := httptest.NewRequest(http.MethodPost, SignUpPath, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, state := ParseSignUpForm(r)
	assert.Equal(t, "a@example.com", req.Email)
	assert.Equal(t, " pass word ", req.Password)
	assert.Equal(t, "Ada", state.Name)
	assert.Equal(t, "a@example.com", state.Email)
}

func TestValidateSignUp(t *testing.T) {
	assert.Nil(t, ValidateSignUp(domain.SignUpRequest{Email: "a@example.com", Password: "long-enough"}))

	errs := ValidateSignUp(domain.SignUpRequest{Email: "nope", Password: "short"})
	assert.Equal(t, "Enter a valid email address", errs["email"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])

	errs = ValidateSignUp(domain.SignUpRequest{})
	assert.Equal(t, "Email address is required", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])
}

func TestSignUpWidgetRendersState(t *testing.T) {
	var b strings.Builder
	state := SignUpState{
		Email:       `x"@example.com`,
		FieldErrors: map[string]string{"password": "Password is required"},
		Error:       "Sign up failed",
	}
	require.NoError(t, SignUpWidget(state).Render(context.Background(), &b))

	got := b.String()
	assert.Contains(t, got, `data-auth-widget="sign-up"`)
	assert.Contains(t, got, `action="/sign-up"`)
	assert.Contains(t, got, `value="x&#34;@example.com"`)
	assert.Contains(t, got, `role="alert">Sign up failed</p>`)
	assert.Contains(t, got, `id="sign-up-password-error"`)
	assert.Equal(t, 1, strings.Count(got, "<form"))
	assert.Equal(t, 1, strings.Count(got, `type="submit"`))
}

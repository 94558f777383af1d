// Package authui holds the auth provider's widgets.
package authui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"context-builder/internal/domain"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
)

// SignUpPath is where the sign-up widget posts its form.
const SignUpPath = "/sign-up"

// WidgetAttr marks the root element of a provider widget.
const WidgetAttr = "data-auth-widget"

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignUpState is what the widget shows: previously typed values, field
// errors, and a form-level error or notice.
type SignUpState struct {
	Name        string
	Email       string
	FieldErrors map[string]string
	Error       string
	Notice      string
}

// ParseSignUpForm reads the widget's submission. The password never goes
// back into the returned state.
func ParseSignUpForm(r *http.Request) (domain.SignUpRequest, SignUpState) {
	req := domain.SignUpRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	return req, SignUpState{Name: req.Name, Email: req.Email}
}

// ValidateSignUp returns a message per invalid field, or nil.
func ValidateSignUp(req domain.SignUpRequest) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"email": "Please check your details"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, ok := out[field]; ok {
			continue
		}
		out[field] = fieldMessage(field, fe.Tag(), fe.Param())
	}
	return out
}

func fieldMessage(field, tag, param string) string {
	switch {
	case tag == "required" && field == "email":
		return "Email address is required"
	case tag == "required" && field == "password":
		return "Password is required"
	case tag == "email":
		return "Enter a valid email address"
	case tag == "min" && field == "password":
		return "Password must be at least " + param + " characters"
	case tag == "max":
		return "Must be at most " + param + " characters"
	default:
		return "Invalid value"
	}
}

// SignUpWidget renders the provider's sign-up form.
func SignUpWidget(state SignUpState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="w-full max-w-sm rounded-lg border p-6 shadow-sm" ` + WidgetAttr + `="sign-up">`)
		b.WriteString(`<h1 class="mb-4 text-xl font-semibold">Create your account</h1>`)
		if state.Error != "" {
			b.WriteString(`<p class="mb-3 text-sm text-red-600" role="alert">` + templ.EscapeString(state.Error) + `</p>`)
		}
		if state.Notice != "" {
			b.WriteString(`<p class="mb-3 text-sm text-green-700" role="status">` + templ.EscapeString(state.Notice) + `</p>`)
		}
		b.WriteString(`<form method="post" action="` + SignUpPath + `" class="flex flex-col gap-3" novalidate>`)
		writeField(&b, "name", "text", "Name", state.Name, "name", state.FieldErrors)
		writeField(&b, "email", "email", "Email address", state.Email, "email", state.FieldErrors)
		writeField(&b, "password", "password", "Password", "", "new-password", state.FieldErrors)
		b.WriteString(`<button type="submit" class="rounded bg-black px-4 py-2 text-white">Sign up</button>`)
		b.WriteString(`</form></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeField(b *strings.Builder, name, kind, label, value, autocomplete string, errs map[string]string) {
	id := "sign-up-" + name
	b.WriteString(`<label for="` + id + `" class="text-sm">` + label + `</label>`)
	b.WriteString(`<input id="` + id + `" name="` + name + `" type="` + kind + `" autocomplete="` + autocomplete + `"`)
	if value != "" {
		b.WriteString(` value="` + templ.EscapeString(value) + `"`)
	}
	msg, invalid := errs[name]
	if invalid {
		b.WriteString(` aria-invalid="true" aria-describedby="` + id + `-error"`)
	}
	b.WriteString(` class="rounded border px-3 py-2">`)
	if invalid {
		b.WriteString(`<p id="` + id + `-error" class="text-xs text-red-600">` + templ.EscapeString(msg) + `</p>`)
	}
}

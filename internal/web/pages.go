package web

import (
	"context"
	"io"

	"context-builder/internal/web/authctx"

	"github.com/a-h/templ"
)

// Centering classes of the sign-up page.
const (
	CenterOuterClass = "flex h-screen items-center justify-center"
	CenterInnerClass = "m-auto"
)

// SignUpPage centers the provider's sign-up widget in the viewport.
func SignUpPage(widget templ.Component) templ.Component {
	if widget == nil {
		widget = templ.NopComponent
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="`+CenterOuterClass+`"><div class="`+CenterInnerClass+`">`); err != nil {
			return err
		}
		if err := widget.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></div>`)
		return err
	})
}

// HomePage greets the signed-in user.
func HomePage(signOutPath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		session := authctx.SessionFromContext(ctx)
		_, err := io.WriteString(w, `<main class="`+CenterOuterClass+`"><div class="`+CenterInnerClass+`">`+
			`<p class="mb-4">Signed in as `+templ.EscapeString(session.User.DisplayName())+`</p>`+
			`<form method="post" action="`+templ.EscapeString(signOutPath)+`"><button type="submit" class="rounded border px-4 py-2">Sign out</button></form>`+
			`</div></main>`)
		return err
	})
}

// NotFoundPage is shown for unknown paths.
func NotFoundPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main class="`+CenterOuterClass+`"><div class="`+CenterInnerClass+`">`+
			`<h1 class="text-xl font-semibold">Page not found</h1></div></main>`)
		return err
	})
}

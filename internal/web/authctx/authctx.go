// Package authctx carries the signed-in session through page rendering.
package authctx

import (
	"context"
	"io"
	"strconv"

	"context-builder/internal/domain"

	"github.com/a-h/templ"
)

// BoundaryID is the id of the element wrapping every page body.
const BoundaryID = "auth-provider"

type sessionKey struct{}

// ProviderConfig is the public half of the auth provider settings. It is safe
// to expose to the browser.
type ProviderConfig struct {
	Name      string
	URL       string
	PublicKey string
}

// WithSession returns a context holding session.
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by WithSession or Provider,
// or a signed-out session.
func SessionFromContext(ctx context.Context) domain.Session {
	session, _ := ctx.Value(sessionKey{}).(domain.Session)
	return session
}

// Provider renders the authentication boundary around its children and makes
// session available to them.
func Provider(cfg ProviderConfig, session domain.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := cfg.Name
		if name == "" {
			name = "supabase"
		}
		if _, err := io.WriteString(w, `<div id="`+BoundaryID+`" data-auth-provider="`+templ.EscapeString(name)+
			`" data-auth-url="`+templ.EscapeString(cfg.URL)+
			`" data-auth-key="`+templ.EscapeString(cfg.PublicKey)+
			`" data-signed-in="`+strconv.FormatBool(session.SignedIn())+`">`); err != nil {
			return err
		}
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		if err := children.Render(WithSession(ctx, session), w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

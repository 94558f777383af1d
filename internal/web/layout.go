// Package web renders the HTML pages of the service.
package web

import (
	"context"
	"io"
	"strings"

	"context-builder/internal/domain"
	"context-builder/internal/web/authctx"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
)

// BaseClass is always applied to the body.
const BaseClass = "h-full"

// LayoutOptions holds everything the root layout renders around a page.
// Pages cannot change these through their content.
type LayoutOptions struct {
	Title       string
	Description string
	Lang        string
	Font        domain.Font
	Auth        authctx.ProviderConfig
	Session     domain.Session
}

// RootLayout renders the document shell and places children inside the
// authentication boundary in the body.
func RootLayout(opts LayoutOptions, children templ.Component) templ.Component {
	if children == nil {
		children = templ.NopComponent
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var head strings.Builder
		head.WriteString(`<!DOCTYPE html><html lang="` + templ.EscapeString(normalizeLang(opts.Lang)) + `">`)
		head.WriteString(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		head.WriteString(`<title>` + templ.EscapeString(opts.Title) + `</title>`)
		if opts.Description != "" {
			head.WriteString(`<meta name="description" content="` + templ.EscapeString(opts.Description) + `">`)
		}
		head.WriteString(`<link rel="stylesheet" href="` + StylesheetPath + `">`)
		if opts.Font.StylesheetURL != "" {
			head.WriteString(`<link rel="stylesheet" href="` + templ.EscapeString(opts.Font.StylesheetURL) + `">`)
		}
		head.WriteString(`</head><body class="` + templ.EscapeString(bodyClass(opts.Font)) + `">`)
		if _, err := io.WriteString(w, head.String()); err != nil {
			return err
		}

		provider := authctx.Provider(opts.Auth, opts.Session)
		if err := provider.Render(templ.WithChildren(ctx, children), w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func bodyClass(font domain.Font) string {
	if font.ClassName == "" {
		return BaseClass
	}
	return BaseClass + " " + font.ClassName
}

func normalizeLang(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil || tag == language.Und {
		return language.English.String()
	}
	return tag.String()
}

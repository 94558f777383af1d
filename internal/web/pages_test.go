package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"context-builder/internal/web/authui"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var interactiveTags = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true, "form": true,
}

func isWidget(n *html.Node) bool {
	return n.Type == html.ElementNode && attr(n, authui.WidgetAttr) != ""
}

func TestSignUpPageCentersOneWidget(t *testing.T) {
	page := SignUpPage(authui.SignUpWidget(authui.SignUpState{}))
	doc, _ := renderDoc(t, RootLayout(testLayoutOptions(), page))

	widgets := findAll(doc, isWidget)
	require.Len(t, widgets, 1)

	inner := widgets[0].Parent
	require.NotNil(t, inner)
	assert.Equal(t, CenterInnerClass, attr(inner, "class"))
	outer := inner.Parent
	require.NotNil(t, outer)
	for _, class := range []string{"flex", "h-screen", "items-center", "justify-center"} {
		assert.Contains(t, strings.Fields(attr(outer, "class")), class)
	}
}

func TestSignUpPageHasNoInteractiveElementsOutsideWidget(t *testing.T) {
	page := SignUpPage(authui.SignUpWidget(authui.SignUpState{Error: "boom"}))
	doc, _ := renderDoc(t, RootLayout(testLayoutOptions(), page))

	interactive := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && interactiveTags[n.Data]
	})
	require.NotEmpty(t, interactive)
	for _, n := range interactive {
		assert.True(t, hasAncestor(n, isWidget), "<%s> outside widget", n.Data)
	}
}

func TestSignUpPageRendersGivenWidgetOnly(t *testing.T) {
	widget := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div data-auth-widget="sign-up">stub</div>`)
		return err
	})
	var b strings.Builder
	require.NoError(t, SignUpPage(widget).Render(context.Background(), &b))
	assert.Equal(t, `<div class="flex h-screen items-center justify-center"><div class="m-auto"><div data-auth-widget="sign-up">stub</div></div></div>`, b.String())
}

func TestStaticHandlerServesStylesheet(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, StylesheetPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".h-full")
	assert.Contains(t, rec.Body.String(), ".font-inter")
}

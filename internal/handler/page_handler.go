package handler

import (
	"bytes"
	"net/http"
	"strings"

	"context-builder/internal/domain"
	"context-builder/internal/web"
	"context-builder/internal/web/authui"
	apperrors "context-builder/pkg/errors"

	"github.com/a-h/templ"
)

const (
	signUpPath  = authui.SignUpPath
	signOutPath = "/sign-out"
	apiPrefix   = "/api/v1"
)

// PageHandler serves the HTML pages. Every page goes through the root layout.
type PageHandler struct {
	authService    domain.AuthService
	logger         domain.Logger
	layout         web.LayoutOptions
	afterSignUpURL string
}

func NewPageHandler(authService domain.AuthService, logger domain.Logger, layout web.LayoutOptions, afterSignUpURL string) *PageHandler {
	if afterSignUpURL == "" {
		afterSignUpURL = "/"
	}
	return &PageHandler{
		authService:    authService,
		logger:         logger,
		layout:         layout,
		afterSignUpURL: afterSignUpURL,
	}
}

// Home shows the signed-in user or sends visitors to sign up.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserFromContext(r); !ok {
		http.Redirect(w, r, signUpPath, http.StatusFound)
		return
	}
	h.renderPage(w, r, http.StatusOK, "", web.HomePage(signOutPath))
}

// SignUpForm renders the sign-up page.
func (h *PageHandler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserFromContext(r); ok {
		http.Redirect(w, r, h.afterSignUpURL, http.StatusFound)
		return
	}
	h.renderSignUp(w, r, http.StatusOK, authui.SignUpState{})
}

// SignUp handles the sign-up widget's form submission.
func (h *PageHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.renderSignUp(w, r, http.StatusBadRequest, authui.SignUpState{Error: "Could not read the form, please try again"})
		return
	}

	req, state := authui.ParseSignUpForm(r)
	if fieldErrs := authui.ValidateSignUp(req); fieldErrs != nil {
		state.FieldErrors = fieldErrs
		h.renderSignUp(w, r, http.StatusUnprocessableEntity, state)
		return
	}

	result, err := h.authService.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case apperrors.IsType(err, apperrors.ErrorTypeValidation):
			state.Error = apperrors.GetMessage(err)
			h.renderSignUp(w, r, http.StatusUnprocessableEntity, state)
		case apperrors.IsType(err, apperrors.ErrorTypeConflict):
			state.FieldErrors = map[string]string{"email": apperrors.GetMessage(err)}
			h.renderSignUp(w, r, http.StatusBadRequest, state)
		default:
			state.Error = apperrors.GetMessage(err)
			h.renderSignUp(w, r, http.StatusBadGateway, state)
		}
		return
	}

	if result.NeedsConfirmation() {
		state.Notice = "Check your email to confirm your account"
		h.renderSignUp(w, r, http.StatusOK, state)
		return
	}

	setSessionCookie(w, r, result.AccessToken, result.ExpiresIn)
	http.Redirect(w, r, h.afterSignUpURL, http.StatusSeeOther)
}

// NotFound renders the not-found page, or a JSON error under the API prefix.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.renderPage(w, r, http.StatusNotFound, "Not found", web.NotFoundPage())
}

// SignOut drops the session cookie.
func (h *PageHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r)
	http.Redirect(w, r, signUpPath, http.StatusSeeOther)
}

func (h *PageHandler) renderSignUp(w http.ResponseWriter, r *http.Request, status int, state authui.SignUpState) {
	h.renderPage(w, r, status, "Sign up", web.SignUpPage(authui.SignUpWidget(state)))
}

// renderPage renders page inside the root layout with the request's session.
func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, page templ.Component) {
	opts := h.layout
	opts.Session = GetSessionFromRequest(r)
	if title != "" {
		opts.Title = title + " | " + h.layout.Title
	}

	var buf bytes.Buffer
	if err := web.RootLayout(opts, page).Render(r.Context(), &buf); err != nil {
		h.logger.Error("Failed to render page", err, "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

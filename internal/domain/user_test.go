package domain

import "testing"

func TestSupabaseUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *SupabaseUser
		want string
	}{
		{name: "nil user", user: nil, want: ""},
		{name: "email fallback", user: &SupabaseUser{Email: "a@example.com"}, want: "a@example.com"},
		{name: "blank name", user: &SupabaseUser{Email: "a@example.com", UserMetadata: map[string]interface{}{"name": "  "}}, want: "a@example.com"},
		{name: "metadata name", user: &SupabaseUser{Email: "a@example.com", UserMetadata: map[string]interface{}{"name": " Ada "}}, want: "Ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSession_SignedIn(t *testing.T) {
	if (Session{}).SignedIn() {
		t.Fatalf("expected zero session to be signed out")
	}
	if (Session{User: &SupabaseUser{}}).SignedIn() {
		t.Fatalf("expected user without id to be signed out")
	}
	if !(Session{User: &SupabaseUser{ID: "u1"}}).SignedIn() {
		t.Fatalf("expected session with user id to be signed in")
	}
}

func TestSignUpResult_NeedsConfirmation(t *testing.T) {
	var nilResult *SignUpResult
	if nilResult.NeedsConfirmation() {
		t.Fatalf("expected nil result not to need confirmation")
	}
	if !(&SignUpResult{User: &SupabaseUser{ID: "u1"}}).NeedsConfirmation() {
		t.Fatalf("expected result without token to need confirmation")
	}
	if (&SignUpResult{AccessToken: "tok"}).NeedsConfirmation() {
		t.Fatalf("expected result with token not to need confirmation")
	}
}

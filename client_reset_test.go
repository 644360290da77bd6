package authgate

import (
	"context"
	"errors"
	"testing"

	"authgate/internal/wire"
)

func TestParseResetLink(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ResetLink
		err  error
	}{
		{
			name: "complete link",
			raw:  "https://app.example.com/reset-password?email=alice%40example.com&token=abc123",
			want: ResetLink{Email: "alice@example.com", Token: "abc123"},
		},
		{
			name: "missing token",
			raw:  "https://app.example.com/reset-password?email=alice%40example.com",
			err:  ErrResetLinkInvalid,
		},
		{
			name: "missing email",
			raw:  "https://app.example.com/reset-password?token=abc123",
			err:  ErrResetLinkInvalid,
		},
		{
			name: "no query at all",
			raw:  "https://app.example.com/reset-password",
			err:  ErrResetLinkInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseResetLink(tc.raw)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected err %v, got %v", tc.err, err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestConfirmPasswordResetMismatchSkipsNetwork(t *testing.T) {
	client, identity, _ := newTestClient(t)

	link := ResetLink{Email: "alice@example.com", Token: "whatever"}
	err := client.ConfirmPasswordReset(context.Background(), link, "new-pass", "different")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "confirm_password" {
		t.Fatalf("expected field confirm_password, got %q", vErr.Field)
	}
	if identity.Requests(wire.PathResetPassword) != 0 {
		t.Fatal("password mismatch must be rejected before any network call")
	}
}

func TestConfirmPasswordResetInvalidLinkSkipsNetwork(t *testing.T) {
	client, identity, _ := newTestClient(t)

	err := client.ConfirmPasswordReset(context.Background(), ResetLink{}, "new-pass", "new-pass")
	if !errors.Is(err, ErrResetLinkInvalid) {
		t.Fatalf("expected ErrResetLinkInvalid, got %v", err)
	}
	if identity.Requests(wire.PathResetPassword) != 0 {
		t.Fatal("invalid link must be rejected before any network call")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	client, identity, store := newTestClient(t)
	ctx := context.Background()

	if err := client.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	token, ok := identity.ResetToken("alice@example.com")
	if !ok {
		t.Fatal("expected a reset token to be issued")
	}

	link := ResetLink{Email: "alice@example.com", Token: token}
	if err := client.ConfirmPasswordReset(ctx, link, "brand-new-pass", "brand-new-pass"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("reset confirmation must not log the user in")
	}

	// Old password is gone, new one works.
	if _, err := client.Login(ctx, "alice", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := client.Login(ctx, "alice", "brand-new-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestConfirmPasswordResetRejectedToken(t *testing.T) {
	client, _, _ := newTestClient(t)

	link := ResetLink{Email: "alice@example.com", Token: "never-issued"}
	err := client.ConfirmPasswordReset(context.Background(), link, "new-pass", "new-pass")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "Invalid or expired token" {
		t.Fatalf("expected server message verbatim, got %q", vErr.Message)
	}
}

func TestRequestPasswordResetMasksUnknownEmail(t *testing.T) {
	client, identity, _ := newTestClient(t)

	// The stub answers 404 for unknown addresses; whether to mask is the
	// server's enumeration policy, so the client reports success either way.
	if err := client.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected masked success for unknown email, got %v", err)
	}
	if identity.Requests(wire.PathForgotPassword) != 1 {
		t.Fatal("expected the request to reach the server")
	}
}

func TestRequestPasswordResetEmptyEmail(t *testing.T) {
	client, identity, _ := newTestClient(t)

	err := client.RequestPasswordReset(context.Background(), "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if identity.Requests(wire.PathForgotPassword) != 0 {
		t.Fatal("empty email must not produce a network call")
	}
}

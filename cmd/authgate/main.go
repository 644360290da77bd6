// Command authgate is the thin presentation layer over the authgate client:
// it maps subcommands to controller operations and renders their results.
// All session state and invariants live in the library; this binary only
// formats output and consults the route guard before rendering protected
// views.
//
// Usage:
//
//	authgate [-config authgate.yaml] <command> [args]
//
// Commands:
//
//	login <username>          prompt-free login; password from AUTHGATE_PASSWORD
//	logout                    clear the session (best-effort server notify)
//	profile                   show the identity profile (protected view)
//	mfa                       toggle multi-factor enrollment (protected view)
//	phone <number>            replace the phone number (protected view)
//	register <user> <email>   create an account; password from AUTHGATE_PASSWORD
//	forgot <email>            request a password-reset link
//	reset <link>              confirm a reset; passwords from AUTHGATE_PASSWORD
//	                          and AUTHGATE_PASSWORD_CONFIRM
//	status                    session, admin, and provider status
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"authgate"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config; defaults apply when empty")
	baseURL := flag.String("base-url", "", "identity API base URL; overrides config")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := authgate.Config{}
	builder := authgate.New()
	if *configPath != "" {
		loaded, err := authgate.LoadConfig(*configPath)
		if err != nil {
			fatalf("config: %v", err)
		}
		cfg = loaded
		builder = builder.WithConfig(cfg)
	}
	if *baseURL != "" {
		builder = builder.WithBaseURL(*baseURL)
	}

	client, err := builder.Build()
	if err != nil {
		fatalf("init: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := run(ctx, client, flag.Args()); err != nil {
		fatalf("%s", renderError(err))
	}
}

func run(ctx context.Context, client *authgate.Client, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		if len(rest) != 1 {
			return errors.New("usage: login <username>")
		}
		password := os.Getenv("AUTHGATE_PASSWORD")
		if password == "" {
			return errors.New("set AUTHGATE_PASSWORD")
		}
		if _, err := client.Login(ctx, rest[0], password); err != nil {
			return err
		}
		fmt.Println("logged in")
		return nil

	case "logout":
		if err := client.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "profile":
		return renderProtected(ctx, client, "/profile", func() error {
			profile, err := client.Profile(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("username: %s\nemail: %s\nmfa enabled: %v\nphone: %s\n",
				profile.Username, profile.Email, profile.MFAEnabled, profile.PhoneNumber)
			return nil
		})

	case "mfa":
		return renderProtected(ctx, client, "/profile", func() error {
			enabled, err := client.ToggleMFA(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("mfa enabled: %v\n", enabled)
			return nil
		})

	case "phone":
		if len(rest) != 1 {
			return errors.New("usage: phone <number>")
		}
		return renderProtected(ctx, client, "/profile", func() error {
			confirmed, err := client.UpdatePhoneNumber(ctx, rest[0])
			if err != nil {
				return err
			}
			fmt.Printf("phone: %s\n", confirmed)
			return nil
		})

	case "register":
		if len(rest) != 2 {
			return errors.New("usage: register <username> <email>")
		}
		password := os.Getenv("AUTHGATE_PASSWORD")
		if password == "" {
			return errors.New("set AUTHGATE_PASSWORD")
		}
		if err := client.Register(ctx, rest[0], rest[1], password); err != nil {
			return err
		}
		fmt.Println("account created; log in to continue")
		return nil

	case "forgot":
		if len(rest) != 1 {
			return errors.New("usage: forgot <email>")
		}
		if err := client.RequestPasswordReset(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("if the address is registered, a reset link has been sent")
		return nil

	case "reset":
		if len(rest) != 1 {
			return errors.New("usage: reset <link>")
		}
		link, err := authgate.ParseResetLink(rest[0])
		if err != nil {
			// Terminal invalid-link state; no network call was made.
			return err
		}
		password := os.Getenv("AUTHGATE_PASSWORD")
		confirm := os.Getenv("AUTHGATE_PASSWORD_CONFIRM")
		if err := client.ConfirmPasswordReset(ctx, link, password, confirm); err != nil {
			return err
		}
		fmt.Println("password reset; log in with the new password")
		return nil

	case "status":
		if client.Authenticated(ctx) {
			fmt.Println("session: authenticated")
			if admin, err := client.AdminStatus(ctx); err == nil {
				fmt.Printf("admin: %v\n", admin)
			}
		} else {
			fmt.Println("session: anonymous")
		}
		if ps, err := client.ProviderStatus(ctx); err == nil {
			fmt.Printf("provider: available=%v %s\n", ps.Available, ps.Detail)
		} else {
			fmt.Printf("provider: %s\n", renderError(err))
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// renderProtected consults the route guard before rendering a protected view
// and redirects to the login entry point when access is denied.
func renderProtected(ctx context.Context, client *authgate.Client, route string, render func() error) error {
	guard := client.Guard()
	if !guard.CanAccess(ctx, route) {
		return fmt.Errorf("not logged in; go to %s first", guard.RedirectTarget())
	}
	return render()
}

func renderError(err error) string {
	var vErr *authgate.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, authgate.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, authgate.ErrTokenExpired):
		return "session expired; please log in again"
	case errors.Is(err, authgate.ErrNetworkFailure):
		return "cannot reach the identity service"
	case errors.Is(err, authgate.ErrResetLinkInvalid):
		return "the password reset link is invalid or has expired"
	case errors.Is(err, authgate.ErrServerError):
		return "the identity service reported an error; try again later"
	default:
		return err.Error()
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Package stub is an in-process implementation of the remote identity API
// contract, used by tests, examples, and the local demo server.
//
// # Architecture boundaries
//
// The stub is a conformance fixture: it speaks the same paths, bodies, and
// status codes as the production identity service but keeps all state in
// memory. Bearer tokens are minted as signed JWTs purely so the stub can
// recognize its own issuance; the client under test continues to treat them
// as opaque strings.
//
// # What this package must NOT do
//
//   - Import authgate (the client must never depend on its own test double).
//   - Persist anything across restarts.
//   - Be reachable from production builds' default wiring.
package stub

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Account is the seed shape for a stub identity.
type Account struct {
	Username    string
	Email       string
	Password    string
	MFAEnabled  bool
	PhoneNumber string
	Admin       bool
}

type account struct {
	username     string
	email        string
	passwordHash []byte
	mfaEnabled   bool
	phoneNumber  string
	admin        bool
}

// Server holds the in-memory identity state behind [Server.Handler].
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account
	byEmail  map[string]string
	resets   map[string]string
	hits     map[string]int

	jwtSecret    []byte
	tokenTTL     time.Duration
	issueRefresh bool
	providerUp   bool
	revoked      bool
}

// Option configures a [Server] at construction time.
type Option func(*Server)

// WithoutRefreshTokens makes /login/ omit the refresh_token field.
func WithoutRefreshTokens() Option {
	return func(s *Server) { s.issueRefresh = false }
}

// WithTokenTTL overrides the lifetime of minted bearer tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// New constructs a stub server with a fresh random signing secret.
func New(opts ...Option) *Server {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}

	s := &Server{
		accounts:     map[string]*account{},
		byEmail:      map[string]string{},
		resets:       map[string]string{},
		hits:         map[string]int{},
		jwtSecret:    secret,
		tokenTTL:     time.Hour,
		issueRefresh: true,
		providerUp:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedAccount registers an identity directly, bypassing /register/.
func (s *Server) SeedAccount(a Account) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Username] = &account{
		username:     a.Username,
		email:        a.Email,
		passwordHash: hash,
		mfaEnabled:   a.MFAEnabled,
		phoneNumber:  a.PhoneNumber,
		admin:        a.Admin,
	}
	s.byEmail[a.Email] = a.Username
	return nil
}

// RevokeAll makes every subsequently presented bearer token fail with 401,
// simulating server-side session expiry.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// SetProviderUp flips the upstream-provider reachability reported by the
// probe endpoint.
func (s *Server) SetProviderUp(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providerUp = up
}

// ResetToken returns the outstanding reset token minted for email, if any.
// Tests use it in place of reading the reset email.
func (s *Server) ResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.resets[email]
	return token, ok
}

// Requests reports how many requests have hit the given path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Handler builds the chi router implementing the identity API contract.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(s.countRequests)

	r.Post("/login/", s.handleLogin)
	r.Post("/register/", s.handleRegister)
	r.Post("/forgot-password/", s.handleForgotPassword)
	r.Post("/reset-password/", s.handleResetPassword)
	r.Get("/keycloak-check/", s.handleProviderCheck)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/logout/", s.handleLogout)
		r.Get("/profile/", s.handleProfile)
		r.Post("/toggle-mfa/", s.handleToggleMFA)
		r.Post("/update-phone/", s.handleUpdatePhone)
		r.Get("/admin-check/", s.handleAdminCheck)
	})

	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type usernameKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided")
			return
		}

		s.mu.Lock()
		revoked := s.revoked
		secret := s.jwtSecret
		s.mu.Unlock()
		if revoked {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		s.mu.Lock()
		_, known := s.accounts[sub]
		s.mu.Unlock()
		if !known {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithUsername(r.Context(), sub)))
	})
}

func (s *Server) mintToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func contextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

func usernameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(usernameKey{}).(string)
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode[T any](r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, false
	}
	return v, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := decode[struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}](r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct := s.accounts[body.Username]
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.mintToken(acct.username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token issuance failed")
		return
	}

	resp := map[string]string{"token": token}
	if s.issueRefresh {
		resp["refresh_token"] = uuid.NewString()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, ok := decode[struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}](r)
	if !ok || body.Username == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[body.Username]; exists {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if _, exists := s.byEmail[body.Email]; exists {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}
	s.accounts[body.Username] = &account{
		username:     body.Username,
		email:        body.Email,
		passwordHash: hash,
	}
	s.byEmail[body.Email] = body.Username
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct := s.accounts[usernameFromContext(r.Context())]
	s.mu.Unlock()
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":     acct.username,
		"email":        acct.email,
		"mfa_enabled":  acct.mfaEnabled,
		"phone_number": acct.phoneNumber,
	})
}

func (s *Server) handleToggleMFA(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[usernameFromContext(r.Context())]
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	acct.mfaEnabled = !acct.mfaEnabled
	writeJSON(w, http.StatusOK, map[string]bool{"mfa_enabled": acct.mfaEnabled})
}

func (s *Server) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	body, ok := decode[struct {
		PhoneNumber string `json:"phone_number"`
	}](r)
	if !ok || body.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "Phone number is required")
		return
	}

	// The stored value is normalized; clients must treat the response as
	// authoritative rather than assume verbatim storage.
	normalized := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(body.PhoneNumber)
	if strings.TrimLeft(normalized, "+0123456789") != "" {
		writeError(w, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[usernameFromContext(r.Context())]
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	acct.phoneNumber = normalized
	writeJSON(w, http.StatusOK, map[string]string{"phone_number": normalized})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	body, ok := decode[struct {
		Email string `json:"email"`
	}](r)
	if !ok || body.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.byEmail[body.Email]; !known {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	s.resets[body.Email] = uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	body, ok := decode[struct {
		Email       string `json:"email"`
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}](r)
	if !ok || body.Email == "" || body.Token == "" || body.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.resets[body.Email]
	if !ok || stored != body.Token {
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	username, known := s.byEmail[body.Email]
	if !known {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}
	s.accounts[username].passwordHash = hash
	delete(s.resets, body.Email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (s *Server) handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct := s.accounts[usernameFromContext(r.Context())]
	s.mu.Unlock()
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": acct.admin})
}

func (s *Server) handleProviderCheck(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	up := s.providerUp
	s.mu.Unlock()
	if !up {
		writeError(w, http.StatusServiceUnavailable, "Identity provider unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available": true,
		"detail":    "identity provider reachable",
	})
}

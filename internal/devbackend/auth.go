package devbackend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type account struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash []byte
}

type accountKey struct{}

func accountFromContext(ctx context.Context) (*account, bool) {
	acct, ok := ctx.Value(accountKey{}).(*account)
	return acct, ok
}

// authData is the success envelope the auth endpoints wrap their payload in.
type authData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
}

func (s *Server) writeAuthData(w http.ResponseWriter, code int, acct *account, access, refresh string) {
	writeJSON(w, code, map[string]authData{"data": {
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       acct.ID,
		Email:        acct.Email,
		FullName:     acct.FullName,
		Role:         acct.Role,
	}})
}

type signupBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupBody
	if !decodeBody(w, r, &body) {
		return
	}
	fe := fieldErrors{}
	email := normalizeEmail(body.Email)
	if !validEmail(email) {
		fe.add("email", "Enter a valid email address.")
	}
	if len(body.Password) < minPasswordLength {
		fe.add("password", "Password must be at least 8 characters.")
	}
	if strings.TrimSpace(body.FullName) == "" {
		fe.add("full_name", "Full name is required.")
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not hash password", "internal_error")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "An account with this email already exists", "email_taken")
		return
	}
	// The first account gets admin so a fresh dev environment has one.
	role := "user"
	if len(s.accounts) == 0 {
		role = "admin"
	}
	acct := &account{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(body.FullName),
		Role:         role,
		PasswordHash: hash,
	}
	s.accounts[email] = acct
	s.mu.Unlock()

	access, refresh, err := s.mintPair(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue tokens", "internal_error")
		return
	}
	s.writeAuthData(w, http.StatusCreated, acct, access, refresh)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	acct := s.accounts[normalizeEmail(body.Email)]
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "invalid_credentials")
		return
	}

	access, refresh, err := s.mintPair(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue tokens", "internal_error")
		return
	}
	s.writeAuthData(w, http.StatusOK, acct, access, refresh)
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	email, ok := s.refresh[body.RefreshToken]
	if ok {
		// Single use: the presented token dies here, success or not.
		delete(s.refresh, body.RefreshToken)
	}
	acct := s.accounts[email]
	s.mu.Unlock()

	if !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token", "invalid_refresh_token")
		return
	}

	access, refresh, err := s.mintPair(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue tokens", "internal_error")
		return
	}
	s.writeAuthData(w, http.StatusOK, acct, access, refresh)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	acct, _ := accountFromContext(r.Context())

	s.mu.Lock()
	for token, email := range s.refresh {
		if acct != nil && email == acct.Email {
			delete(s.refresh, token)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}

type passwordResetBody struct {
	Email string `json:"email"`
}

func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var body passwordResetBody
	if !decodeBody(w, r, &body) {
		return
	}
	email := normalizeEmail(body.Email)

	s.mu.Lock()
	_, exists := s.accounts[email]
	var token string
	if exists {
		token = uuid.NewString()
		s.resetTokens[email] = token
	}
	s.mu.Unlock()

	if exists {
		// No mail in dev; the token goes to the log instead.
		s.logger.Info("password reset token issued", "email", email, "token", token)
	}
	// Same answer whether or not the account exists.
	writeJSON(w, http.StatusOK, map[string]string{"detail": "If the account exists, a reset email has been sent"})
}

type passwordResetConfirmBody struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var body passwordResetConfirmBody
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.NewPassword) < minPasswordLength {
		writeFieldErrors(w, fieldErrors{"new_password": {"Password must be at least 8 characters."}})
		return
	}
	email := normalizeEmail(body.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not hash password", "internal_error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[email]
	if acct == nil || s.resetTokens[email] == "" || s.resetTokens[email] != body.Token {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token", "invalid_reset_token")
		return
	}
	delete(s.resetTokens, email)
	acct.PasswordHash = hash
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password has been reset"})
}

type changePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	acct, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", "not_authenticated")
		return
	}
	var body changePasswordBody
	if !decodeBody(w, r, &body) {
		return
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect", "invalid_password")
		return
	}
	if len(body.NewPassword) < minPasswordLength {
		writeFieldErrors(w, fieldErrors{"new_password": {"Password must be at least 8 characters."}})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not hash password", "internal_error")
		return
	}

	s.mu.Lock()
	acct.PasswordHash = hash
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password changed"})
}

type changeEmailBody struct {
	NewEmail        string `json:"new_email"`
	CurrentPassword string `json:"current_password"`
}

func (s *Server) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	acct, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", "not_authenticated")
		return
	}
	var body changeEmailBody
	if !decodeBody(w, r, &body) {
		return
	}
	newEmail := normalizeEmail(body.NewEmail)
	if !validEmail(newEmail) {
		writeFieldErrors(w, fieldErrors{"new_email": {"Enter a valid email address."}})
		return
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect", "invalid_password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[newEmail]; taken && newEmail != acct.Email {
		writeError(w, http.StatusConflict, "An account with this email already exists", "email_taken")
		return
	}
	delete(s.accounts, acct.Email)
	acct.Email = newEmail
	s.accounts[newEmail] = acct
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Email changed"})
}

// mintPair issues a signed access token and a fresh single-use refresh token.
func (s *Server) mintPair(acct *account) (access, refresh string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   acct.ID,
		"email": acct.Email,
		"role":  acct.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	refresh = uuid.NewString()
	s.mu.Lock()
	s.refresh[refresh] = acct.Email
	s.mu.Unlock()
	return access, refresh, nil
}

// requireBearer authenticates the Authorization header and puts the account
// in the request context.
func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required", "not_authenticated")
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", "invalid_token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", "invalid_token")
			return
		}
		email, _ := claims["email"].(string)

		s.mu.Lock()
		acct := s.accounts[normalizeEmail(email)]
		s.mu.Unlock()
		if acct == nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", "invalid_token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, acct)))
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	dot := strings.LastIndex(email, ".")
	return at > 0 && dot > at+1 && dot < len(email)-1
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/platinummonkey/rococo/pkg/async"
	"github.com/platinummonkey/rococo/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// Credential limits
const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 3
	maxPasswordLength = 12
)

const publishTimeout = 5 * time.Second

// validateRegistration returns every problem with a registration form
func validateRegistration(username, password, passwordSubmit string) []string {
	var problems []string
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		problems = append(problems, "Allowed username length should be from 3 to 50 characters")
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLength || n > maxPasswordLength {
		problems = append(problems, "Allowed password length should be from 3 to 12 characters")
	}
	if password != passwordSubmit {
		problems = append(problems, "Passwords should be equal")
	}
	return problems
}

// registerForm handles GET /register
func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", page{Title: "Register"})
}

// register handles POST /register
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "register", page{Title: "Register", Errors: []string{"Malformed form"}})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	if problems := validateRegistration(username, password, r.PostForm.Get("passwordSubmit")); len(problems) > 0 {
		s.render(w, r, http.StatusBadRequest, "register", page{Title: "Register", Errors: problems, Username: username})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.render(w, r, http.StatusInternalServerError, "register", page{Title: "Register", Errors: []string{"Registration failed"}})
		return
	}

	err = s.repo.CreateCredential(r.Context(), &storage.Credential{
		Username:     username,
		PasswordHash: string(hash),
		Enabled:      true,
	})
	switch {
	case storage.IsConflict(err):
		s.render(w, r, http.StatusConflict, "register", page{
			Title:    "Register",
			Errors:   []string{"Username `" + username + "` already exists"},
			Username: username,
		})
		return
	case err != nil:
		s.logger.WithError(err).Error("failed to store credential")
		s.render(w, r, http.StatusInternalServerError, "register", page{Title: "Register", Errors: []string{"Registration failed"}})
		return
	}

	if s.publisher != nil {
		// Publishing outlives the request
		ctx := context.WithoutCancel(r.Context())
		async.SafeGo(ctx, s.logger, publishTimeout, "publish user registered", func(ctx context.Context) error {
			return s.publisher.UserRegistered(ctx, username)
		})
	}

	s.logger.WithField("username", username).Info("user registered")
	s.render(w, r, http.StatusCreated, "registered", page{Title: "Registered", Username: username, Continue: s.config.FrontendURL})
}

// loginForm handles GET /login
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", page{Title: "Sign in", Continue: r.URL.Query().Get("continue")})
}

// login handles POST /login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", page{Title: "Sign in", Errors: []string{"Malformed form"}})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	continueURL := r.PostForm.Get("continue")

	if err := s.checkPassword(r.Context(), username, r.PostForm.Get("password")); err != nil {
		s.render(w, r, http.StatusUnauthorized, "login", page{
			Title:    "Sign in",
			Errors:   []string{"Bad credentials"},
			Username: username,
			Continue: continueURL,
		})
		return
	}

	if err := s.sessions.Start(w, username); err != nil {
		s.logger.WithError(err).Error("failed to start session")
		s.render(w, r, http.StatusInternalServerError, "login", page{Title: "Sign in", Errors: []string{"Sign in failed"}})
		return
	}
	http.Redirect(w, r, s.continueTarget(continueURL), http.StatusFound)
}

var errBadCredentials = errors.New("bad credentials")

func (s *Server) checkPassword(ctx context.Context, username, password string) error {
	cred, err := s.repo.FindCredential(ctx, username)
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger.WithError(err).Error("failed to load credential")
		}
		return errBadCredentials
	}
	if !cred.Enabled {
		return errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return errBadCredentials
	}
	return nil
}

// continueTarget only follows local paths so the login form cannot be used
// as an open redirect
func (s *Server) continueTarget(raw string) string {
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") {
		return s.config.FrontendURL
	}
	return u.String()
}

// logout handles GET and POST /logout
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(w)
	http.Redirect(w, r, s.config.FrontendURL, http.StatusFound)
}

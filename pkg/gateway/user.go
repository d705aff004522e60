package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/middleware"
	"github.com/platinummonkey/rococo/pkg/model"
)

// UserHandlers serves the signed-in user's profile and session
type UserHandlers struct {
	users         UserService
	sanitizer     *Sanitizer
	maxPhotoBytes int
}

func NewUserHandlers(users UserService, sanitizer *Sanitizer, maxPhotoBytes int) *UserHandlers {
	return &UserHandlers{users: users, sanitizer: sanitizer, maxPhotoBytes: maxPhotoBytes}
}

// RegisterRoutes registers user and session routes
func (h *UserHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/api/user", authed(h.getUser)).Methods("GET")
	router.Handle("/api/user", authed(h.updateUser)).Methods("PATCH")
	router.HandleFunc("/api/session", h.getSession).Methods("GET")
}

// Session describes the bearer token of the current request
type Session struct {
	Username  string     `json:"username,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// getUser handles GET /api/user
func (h *UserHandlers) getUser(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	user, err := h.users.Get(r.Context(), principal.Username)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// updateUser handles PATCH /api/user. The username always comes from the
// token, never from the body.
func (h *UserHandlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if !httputil.ParseJSONOrError(w, r, &user) {
		return
	}
	user.Username = middleware.GetPrincipal(r.Context()).Username
	user.Firstname = h.sanitizer.Text(user.Firstname)
	user.Lastname = h.sanitizer.Text(user.Lastname)

	v := newValidator(h.maxPhotoBytes)
	v.maxLength("firstname", user.Firstname, maxUserNameLength)
	v.maxLength("lastname", user.Lastname, maxUserNameLength)
	v.photo("avatar", user.Avatar, false)
	if err := v.err(); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.users.Update(r.Context(), &user)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// getSession handles GET /api/session. Anonymous callers get an empty object.
func (h *UserHandlers) getSession(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		httputil.WriteSuccess(w, Session{})
		return
	}

	session := Session{Username: principal.Username}
	if !principal.IssuedAt.IsZero() {
		issued := principal.IssuedAt
		session.IssuedAt = &issued
	}
	if !principal.ExpiresAt.IsZero() {
		expires := principal.ExpiresAt
		session.ExpiresAt = &expires
	}
	httputil.WriteSuccess(w, session)
}

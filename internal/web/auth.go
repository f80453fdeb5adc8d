package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/railsuraksha/railsuraksha/internal/auth"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Enter your username and password.",
		})
		return
	}

	token, user, err := auth.Login(r.Context(), s.DB, s.JWTSecret, username, password)
	if err != nil {
		msg := "Sign in failed."
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
			msg = "Wrong username or password."
		} else {
			slog.Error("login error", "error", err)
		}
		s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Error: msg})
		return
	}

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := auth.Revoke(r.Context(), s.DB, claims); err != nil {
				slog.Error("failed to revoke token", "error", err)
			}
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

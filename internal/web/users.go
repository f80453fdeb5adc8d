package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/railsuraksha/railsuraksha/internal/auth"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, data PageData) {
	users, err := store.ListUsers(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
	}

	s.Templates.Render(w, "users.html", &struct {
		PageData
		Users []model.User
		Roles []string
	}{
		PageData: data,
		Users:    users,
		Roles:    []string{model.RoleViewer, model.RoleInspector, model.RoleAdmin},
	})
}

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleAdmin) {
		return
	}
	s.renderUsers(w, r, s.page(r, "Users", "users"))
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleAdmin) {
		return
	}
	data := s.page(r, "Users", "users")

	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || password == "" || !model.RoleAtLeast(role, model.RoleViewer) {
		data.Error = "Username, password and a valid role are required."
		s.renderUsers(w, r, data)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		data.Error = err.Error()
		s.renderUsers(w, r, data)
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, username, hash, role); err != nil {
		data.Error = "Username already exists."
		s.renderUsers(w, r, data)
		return
	}

	slog.Info("user created", "user", data.User.Username, "new_user", username, "role", role)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserUpdateRoleSubmit handles POST /users/{id}/role (admin only).
func (s *Server) UserUpdateRoleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleAdmin) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	role := r.FormValue("role")
	if model.RoleAtLeast(role, model.RoleViewer) {
		if err := store.UpdateUser(r.Context(), s.DB, id, role); err != nil {
			slog.Error("failed to update user", "error", err)
		}
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserDeleteSubmit handles POST /users/{id}/delete (admin only).
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleAdmin) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id == GetWebClaims(r.Context()).UserID {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete user", "error", err)
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Settings", "settings")
	s.Templates.Render(w, "settings.html", &data)
}

// SettingsSubmit handles POST /settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Settings", "settings")

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		data.Error = "Enter your current and new password."
		s.Templates.Render(w, "settings.html", &data)
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		data.Error = "New " + err.Error() + "."
		s.Templates.Render(w, "settings.html", &data)
		return
	}

	err := auth.ChangePassword(r.Context(), s.DB, data.User.UserID, currentPassword, newPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		data.Error = "Current password is incorrect."
	case err != nil:
		slog.Error("failed to change password", "error", err)
		data.Error = "Failed to update password."
	default:
		slog.Info("user changed own password", "user", data.User.Username)
		data.Success = "Password changed."
	}
	s.Templates.Render(w, "settings.html", &data)
}

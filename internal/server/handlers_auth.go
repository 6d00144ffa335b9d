package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/claude/setlog/internal/auth"
	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": validationMessage(err)})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.store.GetUserByEmail(r.Context(), email); err == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User with this email already exists"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.serverError(w, "checking existing user", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, "hashing password", err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), email, hash, strings.TrimSpace(req.Name))
	if err != nil {
		s.serverError(w, "creating user", err)
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.serverError(w, "issuing token", err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		User:    user,
		Token:   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		return
	}
	if err != nil {
		s.serverError(w, "fetching user", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.serverError(w, "issuing token", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Token is valid",
		"user":    user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Name is required"})
		return
	}

	updated, err := s.store.UpdateUserName(r.Context(), user.ID, name)
	if err != nil {
		s.serverError(w, "updating profile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// validationMessage flattens validator errors into a single client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	var parts []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "email":
			parts = append(parts, "email must be a valid address")
		case "min":
			parts = append(parts, "password must be at least "+fe.Param()+" characters long")
		default:
			parts = append(parts, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// Package identitystub реализует локальную заглушку провайдера идентификации.
//
// Заглушка говорит на том же wire-протоколе, что и боевой провайдер
// (GoTrue-подобный REST), хранит аккаунты в памяти и выпускает настоящие
// JWT через общий секрет. Используется в тестах и как cmd/identity-stub
// для локальной разработки.
package identitystub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/jobtrack/internal/lib/jwt"
	"github.com/magabrotheeeer/jobtrack/internal/lib/password"
)

// account — учётная запись внутри заглушки.
type account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}

// Server — заглушка провайдера идентификации.
type Server struct {
	mu          sync.Mutex
	accounts    map[string]*account // ключ — email
	jwtMaker    jwt.Maker
	autoConfirm bool
}

// Option настраивает Server.
type Option func(*Server)

// WithManualConfirmation требует явного подтверждения почты через
// ConfirmEmail, как у боевого провайдера с включённой верификацией.
func WithManualConfirmation() Option {
	return func(s *Server) { s.autoConfirm = false }
}

// New создаёт заглушку, подписывающую токены секретом secretKey.
func New(secretKey string, tokenTTL time.Duration, opts ...Option) *Server {
	s := &Server{
		accounts:    make(map[string]*account),
		jwtMaker:    jwt.NewMaker(secretKey, tokenTTL),
		autoConfirm: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler возвращает маршрутизатор с эндпоинтами провайдера.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/signup", s.handleSignup)
	r.Post("/token", s.handleToken)
	r.Post("/logout", s.handleLogout)
	r.Post("/resend", s.handleResend)
	r.Post("/recover", s.handleRecover)
	r.Get("/user", s.handleUser)
	return r
}

// ConfirmEmail помечает почту аккаунта подтверждённой.
func (s *Server) ConfirmEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[strings.ToLower(email)]; ok {
		acc.Confirmed = true
	}
}

type wireUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	ConfirmedAt  string `json:"confirmed_at,omitempty"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func toWire(acc *account) wireUser {
	u := wireUser{ID: acc.ID, Email: acc.Email}
	u.UserMetadata.FullName = acc.FullName
	if acc.Confirmed {
		u.ConfirmedAt = acc.CreatedAt.Format(time.RFC3339)
	}
	return u
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Data     struct {
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"msg": "invalid request body"})
		return
	}

	key := strings.ToLower(req.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]string{"msg": "User already registered"})
		return
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"msg": "failed to hash password"})
		return
	}
	acc := &account{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FullName:     req.Data.FullName,
		PasswordHash: hash,
		Confirmed:    s.autoConfirm,
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts[key] = acc
	render.JSON(w, r, toWire(acc))
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error_description": "unsupported grant type"})
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error_description": "invalid request body"})
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || password.CompareHash(acc.PasswordHash, req.Password) != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error_description": "Invalid login credentials"})
		return
	}
	if !acc.Confirmed {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error_description": "Email not confirmed"})
		return
	}

	token, err := s.jwtMaker.GenerateToken(acc.ID, acc.Email)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error_description": "failed to issue token"})
		return
	}
	render.JSON(w, r, map[string]any{
		"access_token":  token,
		"refresh_token": uuid.New().String(),
		"expires_in":    3600,
		"token_type":    "bearer",
		"user":          toWire(acc),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	// Не раскрываем существование адреса: всегда 200.
	render.JSON(w, r, map[string]string{})
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	claims, err := s.jwtMaker.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == claims.AccountID() {
			render.JSON(w, r, toWire(acc))
			return
		}
	}
	w.WriteHeader(http.StatusUnauthorized)
}

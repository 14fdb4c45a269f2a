package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// MinPasswordLen — минимальная длина пароля при регистрации.
const MinPasswordLen = 6

// emailRe повторяет проверку формы адреса, которую делает провайдер,
// чтобы отдавать понятную ошибку до сетевого вызова.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Client — REST-клиент провайдера идентификации.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера идентификации.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, accessToken string, body any) (*http.Request, error) {
	url := c.baseURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}

// wireUser — представление аккаунта в ответах провайдера.
type wireUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	ConfirmedAt  string `json:"confirmed_at"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (u *wireUser) account() *Account {
	return &Account{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.UserMetadata.FullName,
		EmailConfirmed: u.ConfirmedAt != "",
	}
}

// wireError — представление ошибки в ответах провайдера.
type wireError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *wireError) text() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	return e.Message
}

func decodeError(resp *http.Response) *ProviderError {
	var we wireError
	_ = json.NewDecoder(resp.Body).Decode(&we)
	msg := we.text()
	if msg == "" {
		msg = resp.Status
	}
	return &ProviderError{StatusCode: resp.StatusCode, Message: msg}
}

// CreateAccount регистрирует аккаунт у провайдера.
//
// Email и длина пароля проверяются до сетевого вызова; все прочие отказы
// провайдера (дубликат email, лимиты) заворачиваются в ProviderError.
func (c *Client) CreateAccount(ctx context.Context, email, password, fullName string) (*Account, error) {
	const op = "identity.CreateAccount"
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": fullName,
			"email":     email,
		},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/signup", "", body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var u wireUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u.account(), nil
}

// SignIn выполняет вход по паролю и возвращает сессию провайдера.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	const op = "identity.SignIn"
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/token?grant_type=password", "", body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		perr := decodeError(resp)
		// Неподтверждённая почта — особый случай: вызывающая сторона
		// предлагает повторную отправку письма.
		if perr.Message == "Email not confirmed" {
			return nil, ErrEmailNotConfirmed
		}
		// Сбой провайдера — не ошибка учётных данных.
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, perr
		}
		return nil, ErrInvalidCredentials
	}

	var grant struct {
		AccessToken  string   `json:"access_token"`
		RefreshToken string   `json:"refresh_token"`
		ExpiresIn    int      `json:"expires_in"`
		User         wireUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
		Account:      grant.User.account(),
	}, nil
}

// SignOut отзывает сессию у провайдера.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	const op = "identity.SignOut"
	req, err := c.newRequest(ctx, http.MethodPost, "/logout", accessToken, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

// ResendConfirmation просит провайдера повторно отправить письмо подтверждения.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	const op = "identity.ResendConfirmation"
	body := map[string]string{
		"type":  "signup",
		"email": email,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/resend", "", body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// ResetPassword инициирует восстановление пароля через письмо.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	const op = "identity.ResetPassword"
	body := map[string]string{"email": email}
	req, err := c.newRequest(ctx, http.MethodPost, "/recover", "", body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// CurrentAccount возвращает аккаунт текущей сессии или (nil, nil),
// если токен невалиден или сессии нет.
func (c *Client) CurrentAccount(ctx context.Context, accessToken string) (*Account, error) {
	const op = "identity.CurrentAccount"
	if accessToken == "" {
		return nil, nil
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var u wireUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u.account(), nil
}

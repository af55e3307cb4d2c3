package auth_http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"banking/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAuthService struct {
	user  *domain.User
	token string
	err   error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func (s *stubAuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestRegisterHandler(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{user: &domain.User{
		ID:        5,
		Username:  "alice",
		CreatedAt: time.Now(),
	}}, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	handler.RegisterHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "s3cret")
}

func TestRegisterHandlerConflict(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{err: domain.ErrUserAlreadyExists}, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	handler.RegisterHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterHandlerRejectsMissingFields(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, zap.NewNop())

	for _, body := range []string{
		`{"username":"alice"}`,
		`{"password":"s3cret"}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		handler.RegisterHandler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestLoginHandler(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{token: "signed-token"}, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"demo","password":"demo123"}`))
	handler.LoginHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"signed-token"}`, rec.Body.String())
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials}, zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"demo","password":"wrong"}`))
	handler.LoginHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

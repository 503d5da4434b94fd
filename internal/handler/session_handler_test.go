package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/proffyhq/proffy-api/internal/models"
	"github.com/proffyhq/proffy-api/internal/service"
)

type userRepoStub struct {
	user *models.User
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	cp := *s.user
	return &cp, nil
}

func newSessionHandler(t *testing.T) *SessionHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &userRepoStub{user: &models.User{ID: 1, Name: "Ada", Email: "ada@example.com", Password: string(hash)}}
	svc := service.NewSessionService(repo, nil, nil, service.SessionConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
		Issuer:     "proffy-api",
	})
	return NewSessionHandler(svc)
}

func TestSessionHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newSessionHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{"email":"ada@example.com","password":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)
	assert.Equal(t, "Ada", body.Data.User.Name)
}

func TestSessionHandlerLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newSessionHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{"email":"ada@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandlerLoginMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newSessionHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

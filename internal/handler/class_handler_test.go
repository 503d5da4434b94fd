package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proffyhq/proffy-api/internal/models"
	"github.com/proffyhq/proffy-api/internal/service"
)

type classRepoStub struct {
	listItems []models.ClassItem
	listTotal int
	findItem  *models.ClassItem
	findErr   error
	createID  int64
	createErr error
}

func (s *classRepoStub) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassItem, int, error) {
	return s.listItems, s.listTotal, nil
}

func (s *classRepoStub) FindByID(ctx context.Context, id int64) (*models.ClassItem, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findItem, nil
}

func (s *classRepoStub) CreateWithSchedule(ctx context.Context, user *models.User, class *models.Class, slots []models.ScheduleSlot) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.createID, nil
}

func newClassHandler(stub *classRepoStub) *ClassHandler {
	svc := service.NewClassService(stub, nil, nil, nil, nil, 10)
	return NewClassHandler(svc, "http://localhost:8080", "/api/v1")
}

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

func TestClassHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &classRepoStub{
		listItems: []models.ClassItem{{ID: 1, Subject: "Math", UserID: 7, Name: "Ada"}},
		listTotal: 15,
	}
	h := newClassHandler(stub)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes?subject=Math&week_day=0&time=9:00&page=1", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "15", w.Header().Get("X-Total-Count"))
	assert.Contains(t, w.Header().Get("Link"), "page=2")
	assert.Contains(t, w.Header().Get("Link"), `rel="next"`)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 15, body.Pagination.TotalCount)

	var items []models.ClassItem
	require.NoError(t, json.Unmarshal(body.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "http://localhost:8080/api/v1/classes/1", items[0].URL)
	assert.Equal(t, "http://localhost:8080/api/v1/users/7", items[0].UserURL)
}

func TestClassHandlerListSinglePageHasNoLinkHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &classRepoStub{listTotal: 5}
	h := newClassHandler(stub)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-Total-Count"))
	assert.Empty(t, w.Header().Get("Link"))
}

func TestClassHandlerListInvalidWeekDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes?week_day=abc", nil)
	c.Request = req

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerListInvalidTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes?time=25:61", nil)
	c.Request = req

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &classRepoStub{findItem: &models.ClassItem{ID: 1, Subject: "Math", UserID: 7}}
	h := newClassHandler(stub)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes/1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var item models.ClassItem
	require.NoError(t, json.Unmarshal(body.Data, &item))
	assert.Equal(t, "http://localhost:8080/api/v1/classes/1", item.URL)
	assert.Equal(t, "http://localhost:8080/api/v1/users/7", item.UserURL)
}

func TestClassHandlerGetInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{findErr: sql.ErrNoRows})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/classes/99", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{createID: 10})

	payload := `{
		"name": "Ada",
		"surname": "Lovelace",
		"email": "ada@example.com",
		"password": "123456",
		"whatsapp": "5511999999999",
		"subject": "Math",
		"cost": 50,
		"schedule": [{"week_day": 0, "from": "6:00", "to": "12:00"}]
	}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/classes", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestClassHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newClassHandler(&classRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/classes", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

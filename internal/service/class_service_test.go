package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/proffyhq/proffy-api/internal/models"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
)

type mockClassRepo struct {
	lastFilter models.ClassFilter
	listItems  []models.ClassItem
	listTotal  int
	listErr    error
	listCalls  int

	findItem *models.ClassItem
	findErr  error

	createdUser  *models.User
	createdClass *models.Class
	createdSlots []models.ScheduleSlot
	createID     int64
	createErr    error
	createCalls  int
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassItem, int, error) {
	m.listCalls++
	m.lastFilter = filter
	return m.listItems, m.listTotal, m.listErr
}

func (m *mockClassRepo) FindByID(ctx context.Context, id int64) (*models.ClassItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.findItem, nil
}

func (m *mockClassRepo) CreateWithSchedule(ctx context.Context, user *models.User, class *models.Class, slots []models.ScheduleSlot) (int64, error) {
	m.createCalls++
	m.createdUser = user
	m.createdClass = class
	m.createdSlots = slots
	if m.createErr != nil {
		return 0, m.createErr
	}
	return m.createID, nil
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected typed error, got %v", err)
	return appErr.Code
}

func validRegisterRequest() RegisterClassRequest {
	return RegisterClassRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@example.com",
		Password: "123456",
		Whatsapp: "5511999999999",
		Subject:  "Math",
		Cost:     50,
		Schedule: []ScheduleEntry{{WeekDay: 0, From: "6:00", To: "12:00"}},
	}
}

func TestClassServiceListNormalizesTimeFilter(t *testing.T) {
	repo := &mockClassRepo{listItems: []models.ClassItem{{ID: 1, Subject: "Math"}}, listTotal: 1}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	weekDay := 0
	items, pagination, err := svc.List(context.Background(), ListClassesParams{
		Subject: "Math",
		WeekDay: &weekDay,
		Time:    "9:00",
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)

	require.NotNil(t, repo.lastFilter.TimeInMinutes)
	assert.Equal(t, 540, *repo.lastFilter.TimeInMinutes)
	require.NotNil(t, repo.lastFilter.WeekDay)
	assert.Equal(t, 0, *repo.lastFilter.WeekDay)
	assert.Equal(t, "Math", repo.lastFilter.Subject)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 10, repo.lastFilter.PageSize)
}

func TestClassServiceListInvalidTimeFailsBeforeQuerying(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	_, _, err := svc.List(context.Background(), ListClassesParams{Time: "25:61"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeFormat.Code, errorCode(t, err))
	assert.Zero(t, repo.listCalls)
}

func TestClassServiceListRejectsWeekDaySeven(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	weekDay := 7
	_, _, err := svc.List(context.Background(), ListClassesParams{WeekDay: &weekDay})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
	assert.Zero(t, repo.listCalls)
}

func TestClassServiceListDefaultsPage(t *testing.T) {
	repo := &mockClassRepo{listTotal: 25}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	_, pagination, err := svc.List(context.Background(), ListClassesParams{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 25, pagination.TotalCount)
}

func TestClassServiceGetNotFound(t *testing.T) {
	repo := &mockClassRepo{findErr: sql.ErrNoRows}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestClassServiceRegister(t *testing.T) {
	repo := &mockClassRepo{createID: 10}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	classID, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(10), classID)

	require.Len(t, repo.createdSlots, 1)
	assert.Equal(t, 0, repo.createdSlots[0].WeekDay)
	assert.Equal(t, 360, repo.createdSlots[0].From)
	assert.Equal(t, 720, repo.createdSlots[0].To)

	assert.Equal(t, "Math", repo.createdClass.Subject)
	assert.Equal(t, 50.0, repo.createdClass.Cost)

	assert.Equal(t, "ada@example.com", repo.createdUser.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.createdUser.Password), []byte("123456")))
}

func TestClassServiceRegisterInvalidSlotTime(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	req := validRegisterRequest()
	req.Schedule = []ScheduleEntry{{WeekDay: 0, From: "invalid-hour", To: "12:00"}}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidScheduleTime.Code, errorCode(t, err))
	assert.Zero(t, repo.createCalls)
}

func TestClassServiceRegisterInvertedSlot(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	req := validRegisterRequest()
	req.Schedule = []ScheduleEntry{{WeekDay: 0, From: "12:00", To: "9:00"}}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidScheduleTime.Code, errorCode(t, err))
	assert.Zero(t, repo.createCalls)
}

func TestClassServiceRegisterRequiresSchedule(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	req := validRegisterRequest()
	req.Schedule = nil

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
	assert.Zero(t, repo.createCalls)
}

func TestClassServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockClassRepo{createErr: appErrors.Clone(appErrors.ErrDuplicateEmail, "")}
	svc := NewClassService(repo, nil, nil, nil, nil, 10)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, errorCode(t, err))
	assert.Equal(t, 1, repo.createCalls)
}

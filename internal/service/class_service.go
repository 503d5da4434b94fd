package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/proffyhq/proffy-api/internal/models"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
	"github.com/proffyhq/proffy-api/pkg/timeofday"
)

const listingCachePattern = "classes:list:*"

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassItem, int, error)
	FindByID(ctx context.Context, id int64) (*models.ClassItem, error)
	CreateWithSchedule(ctx context.Context, user *models.User, class *models.Class, slots []models.ScheduleSlot) (int64, error)
}

// ListClassesParams are the raw listing filters as received from the query
// string. Time is normalised to a minute offset before querying.
type ListClassesParams struct {
	Subject string
	WeekDay *int
	Time    string
	Page    int
}

// ScheduleEntry is one weekly availability window in a registration payload.
type ScheduleEntry struct {
	WeekDay int    `json:"week_day" validate:"gte=0,lte=6"`
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
}

// RegisterClassRequest carries the tutor profile, the offering and its
// schedule for the atomic registration.
type RegisterClassRequest struct {
	Name     string          `json:"name" validate:"required"`
	Surname  string          `json:"surname" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Avatar   string          `json:"avatar" validate:"omitempty,url"`
	Whatsapp string          `json:"whatsapp" validate:"required"`
	Bio      string          `json:"bio"`
	Subject  string          `json:"subject" validate:"required"`
	Cost     float64         `json:"cost" validate:"gte=0"`
	Schedule []ScheduleEntry `json:"schedule" validate:"required,min=1,dive"`
}

type classListPage struct {
	Items []models.ClassItem `json:"items"`
	Total int                `json:"total"`
}

// ClassService orchestrates class listing, lookup and registration.
type ClassService struct {
	repo      classRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, pageSize int) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ClassService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, pageSize: pageSize}
}

// PageSize exposes the fixed listing page size.
func (s *ClassService) PageSize() int {
	return s.pageSize
}

// List returns the page of classes matching the filters plus pagination data.
// A malformed time filter fails before any query is issued.
func (s *ClassService) List(ctx context.Context, params ListClassesParams) ([]models.ClassItem, *models.Pagination, error) {
	filter := models.ClassFilter{
		Subject:  strings.TrimSpace(params.Subject),
		Page:     params.Page,
		PageSize: s.pageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if params.WeekDay != nil {
		if *params.WeekDay < 0 || *params.WeekDay > 6 {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "week_day must be between 0 and 6")
		}
		filter.WeekDay = params.WeekDay
	}

	if params.Time != "" {
		minutes, err := timeofday.ParseMinutes(params.Time)
		if err != nil {
			return nil, nil, err
		}
		filter.TimeInMinutes = &minutes
	}

	key := listingCacheKey(filter)
	var cached classListPage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: cached.Total}
		return cached.Items, pagination, nil
	}

	start := time.Now()
	items, total, err := s.repo.List(ctx, filter)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("classes_list", time.Since(start))
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}

	if err := s.cache.Set(ctx, key, classListPage{Items: items, Total: total}, 0); err != nil {
		s.logger.Warn("failed to cache class listing", zap.Error(err))
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

// Get returns a class joined with its tutor by id.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassItem, error) {
	start := time.Now()
	item, err := s.repo.FindByID(ctx, id)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("classes_get", time.Since(start))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return item, nil
}

// Register creates the tutor, the class and its schedule slots atomically and
// returns the new class id. Nothing persists when any slot is invalid or the
// email is already taken.
func (s *ClassService) Register(ctx context.Context, req RegisterClassRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	slots := make([]models.ScheduleSlot, 0, len(req.Schedule))
	for _, entry := range req.Schedule {
		from, err := timeofday.ParseMinutes(entry.From)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInvalidScheduleTime.Code, appErrors.ErrInvalidScheduleTime.Status,
				fmt.Sprintf("invalid schedule start %q", entry.From))
		}
		to, err := timeofday.ParseMinutes(entry.To)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInvalidScheduleTime.Code, appErrors.ErrInvalidScheduleTime.Status,
				fmt.Sprintf("invalid schedule end %q", entry.To))
		}
		if from >= to {
			return 0, appErrors.Clone(appErrors.ErrInvalidScheduleTime,
				fmt.Sprintf("schedule start %q must be before end %q", entry.From, entry.To))
		}
		slots = append(slots, models.ScheduleSlot{WeekDay: entry.WeekDay, From: from, To: to})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Surname:  strings.TrimSpace(req.Surname),
		Email:    strings.TrimSpace(req.Email),
		Password: string(hash),
		Avatar:   strings.TrimSpace(req.Avatar),
		Whatsapp: strings.TrimSpace(req.Whatsapp),
		Bio:      req.Bio,
	}
	class := &models.Class{Subject: strings.TrimSpace(req.Subject), Cost: req.Cost}

	start := time.Now()
	classID, err := s.repo.CreateWithSchedule(ctx, user, class, slots)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("classes_register", time.Since(start))
	}
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return 0, appErr
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register class")
	}

	if err := s.cache.Invalidate(ctx, listingCachePattern); err != nil {
		s.logger.Warn("failed to invalidate class listing cache", zap.Error(err))
	}

	s.logger.Info("class registered",
		zap.Int64("class_id", classID),
		zap.Int64("user_id", user.ID),
		zap.Int("slots", len(slots)),
	)
	return classID, nil
}

func listingCacheKey(filter models.ClassFilter) string {
	weekDay := "any"
	if filter.WeekDay != nil {
		weekDay = fmt.Sprintf("%d", *filter.WeekDay)
	}
	timeOfDay := "any"
	if filter.TimeInMinutes != nil {
		timeOfDay = fmt.Sprintf("%d", *filter.TimeInMinutes)
	}
	return fmt.Sprintf("classes:list:subject=%s:week_day=%s:time=%s:page=%d", filter.Subject, weekDay, timeOfDay, filter.Page)
}

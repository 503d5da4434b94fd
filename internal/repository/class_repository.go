package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/proffyhq/proffy-api/internal/models"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
)

const classItemColumns = `c.id, c.subject, c.cost, c.user_id, u.name, u.surname, u.email, u.avatar, u.whatsapp, u.bio`

// ClassRepository manages persistence for classes, their tutors and their
// weekly schedule.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// classFilterWhere builds the WHERE fragment shared by the page and count
// queries so both always agree on filter semantics. Weekday and time
// conditions live inside a single EXISTS subquery: when both are present the
// same slot must satisfy them. Time matching is half-open, "from" <= t < "to".
func classFilterWhere(filter models.ClassFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		where += fmt.Sprintf(" AND c.subject = $%d", len(args))
	}

	if filter.WeekDay != nil || filter.TimeInMinutes != nil {
		conditions := []string{"s.class_id = c.id"}
		if filter.WeekDay != nil {
			args = append(args, *filter.WeekDay)
			conditions = append(conditions, fmt.Sprintf("s.week_day = $%d", len(args)))
		}
		if filter.TimeInMinutes != nil {
			args = append(args, *filter.TimeInMinutes)
			conditions = append(conditions, fmt.Sprintf(`s."from" <= $%d`, len(args)))
			conditions = append(conditions, fmt.Sprintf(`s."to" > $%d`, len(args)))
		}
		where += " AND EXISTS (SELECT 1 FROM class_schedule s WHERE " + strings.Join(conditions, " AND ") + ")"
	}

	return where, args
}

// List returns the requested page of classes matching the filter along with
// the total match count. The two queries run back-to-back without a shared
// snapshot; momentary drift under concurrent writes is accepted.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassItem, int, error) {
	where, args := classFilterWhere(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM classes c JOIN users u ON u.id = c.user_id %s ORDER BY c.id LIMIT %d OFFSET %d",
		classItemColumns, where, size, offset)
	items := []models.ClassItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM classes c JOIN users u ON u.id = c.user_id %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return items, total, nil
}

// FindByID fetches a single class joined with its tutor.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.ClassItem, error) {
	query := fmt.Sprintf("SELECT %s FROM classes c JOIN users u ON u.id = c.user_id WHERE c.id = $1", classItemColumns)
	var item models.ClassItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateWithSchedule inserts the tutor, the class and every schedule slot in
// one transaction. Any failure rolls back the whole registration so a class
// never persists without its slots and a duplicate email leaves no rows
// behind.
func (r *ClassRepository) CreateWithSchedule(ctx context.Context, user *models.User, class *models.Class, slots []models.ScheduleSlot) (classID int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin class registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `INSERT INTO users (name, surname, email, password, avatar, whatsapp, bio)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.GetContext(ctx, &user.ID, insertUser,
		user.Name, user.Surname, user.Email, user.Password, user.Avatar, user.Whatsapp, user.Bio); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrDuplicateEmail, "email "+user.Email+" already registered")
			return 0, err
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	const insertClass = `INSERT INTO classes (subject, cost, user_id) VALUES ($1, $2, $3) RETURNING id`
	if err = tx.GetContext(ctx, &class.ID, insertClass, class.Subject, class.Cost, user.ID); err != nil {
		return 0, fmt.Errorf("insert class: %w", err)
	}
	class.UserID = user.ID

	const insertSlot = `INSERT INTO class_schedule (week_day, "from", "to", class_id) VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range slots {
		slots[i].ClassID = class.ID
		if err = tx.GetContext(ctx, &slots[i].ID, insertSlot,
			slots[i].WeekDay, slots[i].From, slots[i].To, class.ID); err != nil {
			return 0, fmt.Errorf("insert schedule slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit class registration: %w", err)
	}
	return class.ID, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

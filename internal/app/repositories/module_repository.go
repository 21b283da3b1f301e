package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/db"
	"github.com/classforge/classforge/internal/pkg/logger"
)

var moduleColumns = []string{"id", "course_id", "title", "description", "position", "created_at", "updated_at"}

// ModuleRepository handles database operations for course modules.
type ModuleRepository struct {
	DB *pgxpool.Pool
}

// NewModuleRepository creates a new ModuleRepository.
func NewModuleRepository(db *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func scanModule(row pgx.Row) (*models.Module, error) {
	var m models.Module
	err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CreateModule inserts a new module and returns its ID.
func (r *ModuleRepository) CreateModule(ctx context.Context, module *models.Module) (int64, error) {
	sql, args, err := squirrel.Insert("modules").
		Columns("course_id", "title", "description", "position").
		Values(module.CourseID, module.Title, module.Description, module.Position).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("courseID", module.CourseID).Msg("Error executing create module query")
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a module by ID. Returns (nil, nil) when not found.
func (r *ModuleRepository) GetByID(ctx context.Context, id int64) (*models.Module, error) {
	sql, args, err := squirrel.Select(moduleColumns...).
		From("modules").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanModule(r.DB.QueryRow(ctx, sql, args...))
}

// ListByCourse retrieves a course's modules in position order.
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Module, error) {
	sql, args, err := squirrel.Select(moduleColumns...).
		From("modules").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]*models.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning module row")
			continue
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// NextPosition returns the position a newly appended module should take.
func (r *ModuleRepository) NextPosition(ctx context.Context, courseID int64) (int, error) {
	sql, args, err := squirrel.Select("coalesce(max(position), 0) + 1").
		From("modules").
		Where(squirrel.Eq{"course_id": courseID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var position int
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&position)
	return position, err
}

// Update rewrites a module's title and description.
func (r *ModuleRepository) Update(ctx context.Context, module *models.Module) error {
	sql, args, err := squirrel.Update("modules").
		Set("title", module.Title).
		Set("description", module.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": module.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reorder rewrites the positions of a course's modules to match the given
// ID order. The list must cover exactly the course's modules; an ID from
// another course or a stale list leaves the order untouched.
func (r *ModuleRepository) Reorder(ctx context.Context, courseID int64, orderedIDs []int64) error {
	return db.WithTransaction(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		for i, id := range orderedIDs {
			sql, args, err := squirrel.Update("modules").
				Set("position", i+1).
				Set("updated_at", squirrel.Expr("now()")).
				Where(squirrel.Eq{"id": id, "course_id": courseID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return err
			}
			cmdTag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return err
			}
			if cmdTag.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}
		return nil
	})
}

// Delete removes a module. Its materials cascade at the schema level.
func (r *ModuleRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("modules").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/pkg/helpers"
	"github.com/classforge/classforge/internal/pkg/logger"
)

var courseColumns = []string{
	"id", "title", "description", "level", "duration", "is_paid", "price",
	"tutor_id", "status", "thumbnail_url", "requirements", "prerequisites",
	"created_at", "updated_at",
}

// CourseRepository handles database operations for courses.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Level, &c.Duration, &c.IsPaid, &c.Price,
		&c.TutorID, &c.Status, &c.ThumbnailURL, &c.Requirements, &c.Prerequisites,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a new course and returns its ID.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := squirrel.Insert("courses").
		Columns("title", "description", "level", "duration", "is_paid", "price",
			"tutor_id", "status", "requirements", "prerequisites").
		Values(course.Title, course.Description, course.Level, course.Duration,
			course.IsPaid, course.Price, course.TutorID, course.Status,
			course.Requirements, course.Prerequisites).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error executing create course query")
		return 0, err
	}
	return id, nil
}

// UpdateThumbnail sets the course's thumbnail URL.
func (r *CourseRepository) UpdateThumbnail(ctx context.Context, courseID int64, url string) error {
	sql, args, err := squirrel.Update("courses").
		Set("thumbnail_url", url).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": courseID}).
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

// GetByID retrieves a course by ID. Returns (nil, nil) when not found.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := squirrel.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.DB.QueryRow(ctx, sql, args...))
}

// CourseFilter narrows a course listing.
type CourseFilter struct {
	Status  models.CourseStatus
	Level   models.CourseLevel
	TutorID int64
	Search  string
}

// List retrieves a paginated, filtered course listing, newest first.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	conditions := squirrel.And{}
	if filter.Status != "" {
		conditions = append(conditions, squirrel.Eq{"status": filter.Status})
	}
	if filter.Level != "" {
		conditions = append(conditions, squirrel.Eq{"level": filter.Level})
	}
	if filter.TutorID > 0 {
		conditions = append(conditions, squirrel.Eq{"tutor_id": filter.TutorID})
	}
	if filter.Search != "" {
		conditions = append(conditions, squirrel.ILike{"title": "%" + filter.Search + "%"})
	}

	countQuery := squirrel.Select("count(*)").From("courses").PlaceholderFormat(squirrel.Dollar)
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
	}
	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	if total == 0 {
		return []*models.Course{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	query := squirrel.Select(courseColumns...).
		From("courses").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)
	if len(conditions) > 0 {
		query = query.Where(conditions)
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			continue
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pagination, err
	}
	return courses, pagination, nil
}

// Update rewrites the editable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := squirrel.Update("courses").
		Set("title", course.Title).
		Set("description", course.Description).
		Set("level", course.Level).
		Set("duration", course.Duration).
		Set("is_paid", course.IsPaid).
		Set("price", course.Price).
		Set("requirements", course.Requirements).
		Set("prerequisites", course.Prerequisites).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": course.ID}).
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

// UpdateStatus transitions the course lifecycle state.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	sql, args, err := squirrel.Update("courses").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
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

// Delete removes a course. Modules and materials cascade at the schema level.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("courses").
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

// GetDetails retrieves a course together with its tutor, modules and
// materials. Returns (nil, nil) when the course does not exist.
func (r *CourseRepository) GetDetails(ctx context.Context, id int64) (*models.Course, error) {
	course, err := r.GetByID(ctx, id)
	if err != nil || course == nil {
		return course, err
	}

	tutorSQL, tutorArgs, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": course.TutorID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	tutor, err := scanUser(r.DB.QueryRow(ctx, tutorSQL, tutorArgs...))
	if err != nil {
		return nil, err
	}
	course.Tutor = tutor

	moduleSQL, moduleArgs, err := squirrel.Select("id", "course_id", "title", "description", "position", "created_at", "updated_at").
		From("modules").
		Where(squirrel.Eq{"course_id": id}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	moduleRows, err := r.DB.Query(ctx, moduleSQL, moduleArgs...)
	if err != nil {
		return nil, err
	}
	defer moduleRows.Close()

	modules := make([]models.Module, 0)
	moduleIndex := make(map[int64]int)
	for moduleRows.Next() {
		var m models.Module
		if err := moduleRows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Position, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Materials = make([]models.Material, 0)
		moduleIndex[m.ID] = len(modules)
		modules = append(modules, m)
	}
	if err := moduleRows.Err(); err != nil {
		return nil, err
	}

	materialSQL, materialArgs, err := squirrel.Select(materialColumns...).
		From("materials").
		Where(squirrel.Eq{"course_id": id}).
		OrderBy("module_id ASC", "position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	materialRows, err := r.DB.Query(ctx, materialSQL, materialArgs...)
	if err != nil {
		return nil, err
	}
	defer materialRows.Close()

	for materialRows.Next() {
		var m models.Material
		if err := materialRows.Scan(&m.ID, &m.CourseID, &m.ModuleID, &m.Title, &m.Description, &m.Type, &m.Position, &m.FileURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if idx, ok := moduleIndex[m.ModuleID]; ok {
			modules[idx].Materials = append(modules[idx].Materials, m)
		}
	}
	if err := materialRows.Err(); err != nil {
		return nil, err
	}

	course.Modules = modules
	return course, nil
}


package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/pkg/helpers"
	"github.com/classforge/classforge/internal/pkg/logger"
)

var enrollmentColumns = []string{"id", "course_id", "student_id", "status", "created_at", "updated_at"}

// EnrollmentRepository handles database operations for enrollments and
// material progress.
type EnrollmentRepository struct {
	DB *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.CourseID, &e.StudentID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create enrolls a student in a course and returns the enrollment ID. The
// unique (course_id, student_id) index guards against duplicates.
func (r *EnrollmentRepository) Create(ctx context.Context, courseID, studentID int64) (int64, error) {
	sql, args, err := squirrel.Insert("enrollments").
		Columns("course_id", "student_id", "status").
		Values(courseID, studentID, models.EnrollmentActive).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("studentID", studentID).
			Msg("Error executing create enrollment query")
		return 0, err
	}
	return id, nil
}

// GetByID retrieves an enrollment by ID. Returns (nil, nil) when not found.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := squirrel.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEnrollment(r.DB.QueryRow(ctx, sql, args...))
}

// Get retrieves the enrollment linking a student to a course. Returns
// (nil, nil) when the student is not enrolled.
func (r *EnrollmentRepository) Get(ctx context.Context, courseID, studentID int64) (*models.Enrollment, error) {
	sql, args, err := squirrel.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID, "student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEnrollment(r.DB.QueryRow(ctx, sql, args...))
}

// ListByCourse retrieves a course's enrollments with each student attached,
// newest first.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64, page, size int) ([]*models.Enrollment, dto.PaginationInfo, error) {
	countSQL, countArgs, err := squirrel.Select("count(*)").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	if total == 0 {
		return []*models.Enrollment{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := squirrel.Select(
		"e.id", "e.course_id", "e.student_id", "e.status", "e.created_at", "e.updated_at",
		"u.id", "u.email", "u.password", "u.first_name", "u.last_name",
		"u.role_type", "u.is_active", "u.bio", "u.last_login_at", "u.created_at", "u.updated_at",
	).
		From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var u models.User
		err := rows.Scan(
			&e.ID, &e.CourseID, &e.StudentID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
			&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
			&u.RoleType, &u.IsActive, &u.Bio, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			continue
		}
		e.Student = &u
		enrollments = append(enrollments, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, pagination, err
	}
	return enrollments, pagination, nil
}

// ListByStudent retrieves a student's enrollments with each course attached,
// newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	sql, args, err := squirrel.Select(
		"e.id", "e.course_id", "e.student_id", "e.status", "e.created_at", "e.updated_at",
		"c.id", "c.title", "c.description", "c.level", "c.duration", "c.is_paid", "c.price",
		"c.tutor_id", "c.status", "c.thumbnail_url", "c.requirements", "c.prerequisites",
		"c.created_at", "c.updated_at",
	).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.created_at DESC").
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

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var c models.Course
		err := rows.Scan(
			&e.ID, &e.CourseID, &e.StudentID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
			&c.ID, &c.Title, &c.Description, &c.Level, &c.Duration, &c.IsPaid, &c.Price,
			&c.TutorID, &c.Status, &c.ThumbnailURL, &c.Requirements, &c.Prerequisites,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			continue
		}
		e.Course = &c
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

// UpdateStatus transitions an enrollment's state.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	sql, args, err := squirrel.Update("enrollments").
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

// Delete removes an enrollment and its progress records.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("enrollments").
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

// RecordProgress upserts a completion mark for a material within an
// enrollment.
func (r *EnrollmentRepository) RecordProgress(ctx context.Context, enrollmentID, materialID int64, completed bool) error {
	var completedAt *time.Time
	if completed {
		now := time.Now()
		completedAt = &now
	}

	sql, args, err := squirrel.Insert("progress").
		Columns("enrollment_id", "material_id", "completed", "completed_at").
		Values(enrollmentID, materialID, completed, completedAt).
		Suffix("ON CONFLICT (enrollment_id, material_id) DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, sql, args...)
	return err
}

// CountCompleted returns the number of completed materials for an enrollment.
func (r *EnrollmentRepository) CountCompleted(ctx context.Context, enrollmentID int64) (int64, error) {
	sql, args, err := squirrel.Select("count(*)").
		From("progress").
		Where(squirrel.Eq{"enrollment_id": enrollmentID, "completed": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&count)
	return count, err
}

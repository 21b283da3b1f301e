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
)

// AnalyticsRepository runs the aggregation queries behind the dashboards.
type AnalyticsRepository struct {
	DB *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// CourseStats aggregates enrollment numbers for one course. Completion
// percent is the share of the course's materials the average active
// enrollment has finished.
func (r *AnalyticsRepository) CourseStats(ctx context.Context, courseID int64) (*dto.CourseStatsResponse, error) {
	sql, args, err := squirrel.Select(
		"c.id",
		"c.title",
		"count(e.id)",
		"count(e.id) FILTER (WHERE e.status = 'ACTIVE')",
		"count(e.id) FILTER (WHERE e.status = 'COMPLETED')",
	).
		From("courses c").
		LeftJoin("enrollments e ON e.course_id = c.id").
		Where(squirrel.Eq{"c.id": courseID}).
		GroupBy("c.id", "c.title").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stats dto.CourseStatsResponse
	err = r.DB.QueryRow(ctx, sql, args...).Scan(
		&stats.CourseID, &stats.Title, &stats.Enrollments, &stats.ActiveStudents, &stats.Completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	pct, err := r.completionPercent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	stats.CompletionPercent = pct
	return &stats, nil
}

// completionPercent averages per-enrollment material completion for a course,
// scaled to 0..100. Courses without materials or enrollments report 0.
func (r *AnalyticsRepository) completionPercent(ctx context.Context, courseID int64) (float64, error) {
	const query = `
		SELECT coalesce(avg(done.cnt::float / totals.cnt) * 100, 0)
		FROM enrollments e
		CROSS JOIN (SELECT count(*) AS cnt FROM materials WHERE course_id = $1) totals
		LEFT JOIN LATERAL (
			SELECT count(*) AS cnt FROM progress p
			WHERE p.enrollment_id = e.id AND p.completed
		) done ON true
		WHERE e.course_id = $1 AND totals.cnt > 0`

	var pct float64
	err := r.DB.QueryRow(ctx, query, courseID).Scan(&pct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return pct, nil
}

// PlatformStats produces the admin dashboard headline numbers.
func (r *AnalyticsRepository) PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM courses),
			(SELECT count(*) FROM courses WHERE status = 'PUBLISHED'),
			(SELECT count(*) FROM users WHERE role_type = 'TUTOR'),
			(SELECT count(*) FROM users WHERE role_type = 'STUDENT'),
			(SELECT count(*) FROM enrollments),
			(SELECT count(*) FROM enrollments WHERE created_at >= $1)`

	var stats dto.PlatformStatsResponse
	since := time.Now().AddDate(0, 0, -30)
	err := r.DB.QueryRow(ctx, query, since).Scan(
		&stats.TotalCourses, &stats.PublishedCourses, &stats.TotalTutors,
		&stats.TotalStudents, &stats.TotalEnrollments, &stats.RecentEnrollments,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// TutorStats produces a tutor's dashboard headline numbers together with the
// per-course breakdown.
func (r *AnalyticsRepository) TutorStats(ctx context.Context, tutorID int64) (*dto.TutorStatsResponse, error) {
	headSQL, headArgs, err := squirrel.Select(
		"count(c.id)",
		"count(c.id) FILTER (WHERE c.status = ?)",
		"coalesce(sum(enr.cnt), 0)",
	).
		From("courses c").
		LeftJoin("LATERAL (SELECT count(*) AS cnt FROM enrollments e WHERE e.course_id = c.id) enr ON true").
		Where(squirrel.Eq{"c.tutor_id": tutorID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	// The FILTER placeholder is numbered before the WHERE one, so its
	// argument goes first.
	headArgs = append([]interface{}{models.CourseStatusPublished}, headArgs...)

	stats := &dto.TutorStatsResponse{TutorID: tutorID, Courses: []dto.CourseStatsResponse{}}
	err = r.DB.QueryRow(ctx, headSQL, headArgs...).Scan(
		&stats.TotalCourses, &stats.PublishedCourses, &stats.TotalEnrollments,
	)
	if err != nil {
		return nil, err
	}

	courseSQL, courseArgs, err := squirrel.Select("id").
		From("courses").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, courseSQL, courseArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courseIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		courseIDs = append(courseIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range courseIDs {
		cs, err := r.CourseStats(ctx, id)
		if err != nil {
			return nil, err
		}
		if cs != nil {
			stats.Courses = append(stats.Courses, *cs)
		}
	}
	return stats, nil
}

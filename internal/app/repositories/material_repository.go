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

var materialColumns = []string{
	"id", "course_id", "module_id", "title", "description", "type",
	"position", "file_url", "created_at", "updated_at",
}

// MaterialRepository handles database operations for module materials.
type MaterialRepository struct {
	DB *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func scanMaterial(row pgx.Row) (*models.Material, error) {
	var m models.Material
	err := row.Scan(
		&m.ID, &m.CourseID, &m.ModuleID, &m.Title, &m.Description, &m.Type,
		&m.Position, &m.FileURL, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// CreateMaterial inserts a new material and returns its ID.
func (r *MaterialRepository) CreateMaterial(ctx context.Context, material *models.Material) (int64, error) {
	sql, args, err := squirrel.Insert("materials").
		Columns("course_id", "module_id", "title", "description", "type", "position", "file_url").
		Values(material.CourseID, material.ModuleID, material.Title, material.Description,
			material.Type, material.Position, material.FileURL).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("moduleID", material.ModuleID).Msg("Error executing create material query")
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a material by ID. Returns (nil, nil) when not found.
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	sql, args, err := squirrel.Select(materialColumns...).
		From("materials").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanMaterial(r.DB.QueryRow(ctx, sql, args...))
}

// ListByModule retrieves a module's materials in position order.
func (r *MaterialRepository) ListByModule(ctx context.Context, moduleID int64) ([]*models.Material, error) {
	sql, args, err := squirrel.Select(materialColumns...).
		From("materials").
		Where(squirrel.Eq{"module_id": moduleID}).
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

	materials := make([]*models.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning material row")
			continue
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// NextPosition returns the position a newly appended material should take.
func (r *MaterialRepository) NextPosition(ctx context.Context, moduleID int64) (int, error) {
	sql, args, err := squirrel.Select("coalesce(max(position), 0) + 1").
		From("materials").
		Where(squirrel.Eq{"module_id": moduleID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var position int
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&position)
	return position, err
}

// Update rewrites a material's editable fields.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	sql, args, err := squirrel.Update("materials").
		Set("title", material.Title).
		Set("description", material.Description).
		Set("file_url", material.FileURL).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": material.ID}).
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

// Reorder rewrites the positions of a module's materials to match the
// given ID order. An ID outside the module leaves the order untouched.
func (r *MaterialRepository) Reorder(ctx context.Context, moduleID int64, orderedIDs []int64) error {
	return db.WithTransaction(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		for i, id := range orderedIDs {
			sql, args, err := squirrel.Update("materials").
				Set("position", i+1).
				Set("updated_at", squirrel.Expr("now()")).
				Where(squirrel.Eq{"id": id, "module_id": moduleID}).
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

// Delete removes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("materials").
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

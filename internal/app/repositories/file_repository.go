package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classforge/classforge/internal/app/models"
	"github.com/classforge/classforge/internal/pkg/logger"
)

// FileRepository tracks uploaded files in the files table.
type FileRepository struct {
	DB *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{DB: db}
}

// CreateFile records an uploaded file and returns its ID.
func (r *FileRepository) CreateFile(ctx context.Context, file *models.File) (int64, error) {
	sql, args, err := squirrel.Insert("files").
		Columns("file_name", "file_url", "file_size", "mime_type", "resource_type", "resource_id", "uploaded_by").
		Values(file.FileName, file.FileURL, file.FileSize, file.MimeType,
			file.ResourceType, file.ResourceID, file.UploadedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("fileName", file.FileName).Msg("Error executing create file query")
		return 0, err
	}
	return id, nil
}

// DeleteByResource removes the file records attached to a resource.
func (r *FileRepository) DeleteByResource(ctx context.Context, resourceType models.FileResource, resourceID int64) error {
	sql, args, err := squirrel.Delete("files").
		Where(squirrel.Eq{"resource_type": resourceType, "resource_id": resourceID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, sql, args...)
	return err
}

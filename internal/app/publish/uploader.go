package publish

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
)

var errNoFileBound = errors.New("no file bound to material")

// moduleJob pairs a confirmed module with the chapter whose materials it
// will receive.
type moduleJob struct {
	ModuleID int64
	Chapter  draft.Chapter
}

// MaterialFailure records one material that could not be uploaded.
type MaterialFailure struct {
	Chapter  string
	Material string
	Err      error
}

// uploadMaterials processes every queued material strictly sequentially, in
// chapter order then material order. Each material's error is caught
// individually so one failure never stops the rest; the tally feeds the
// single summary notification. A panic escaping an iteration is recovered
// here and marks the summary undetermined instead of crashing the flow.
func (p *Publisher) uploadMaterials(ctx context.Context, log zerolog.Logger, courseID, actorID int64, jobs []moduleJob, files Files) (summary Summary) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Material upload aborted unexpectedly")
			summary.Undetermined = true
		}
	}()

	for _, job := range jobs {
		for idx, m := range job.Chapter.Materials {
			if m.Type == models.MaterialVideo {
				summary.HasVideo = true
			}
			if err := p.uploadOne(ctx, log, courseID, job.ModuleID, actorID, idx+1, m, files[m.ID]); err != nil {
				log.Warn().
					Err(err).
					Str("chapter", job.Chapter.Title).
					Str("material", m.Title).
					Msg("Material upload failed, continuing")
				summary.Failed++
				summary.Failures = append(summary.Failures, MaterialFailure{
					Chapter:  job.Chapter.Title,
					Material: m.Title,
					Err:      err,
				})
				continue
			}
			summary.Uploaded++
		}
	}

	log.Info().
		Int("uploaded", summary.Uploaded).
		Int("failed", summary.Failed).
		Msg("Material upload finished")
	return summary
}

// uploadOne stores the material's file payload (when file-backed) and
// creates its record. Link materials record their external URL instead.
func (p *Publisher) uploadOne(ctx context.Context, log zerolog.Logger, courseID, moduleID, actorID int64, position int, m draft.Material, file *multipart.FileHeader) error {
	var fileURL *string
	switch {
	case m.Type.FileBacked():
		if file == nil {
			return errNoFileBound
		}
		url, err := p.blobs.SaveFileWithPath(file, "materials")
		if err != nil {
			return fmt.Errorf("uploading file: %w", err)
		}
		fileURL = &url
	case m.URL != "":
		url := m.URL
		fileURL = &url
	}

	material := &models.Material{
		CourseID: courseID,
		ModuleID: moduleID,
		Title:    m.Title,
		Type:     m.Type,
		Position: position,
		FileURL:  fileURL,
	}
	if m.Description != "" {
		description := m.Description
		material.Description = &description
	}

	materialID, err := p.materials.CreateMaterial(ctx, material)
	if err != nil {
		return fmt.Errorf("creating material record: %w", err)
	}
	if m.Type.FileBacked() {
		p.trackFile(ctx, log, file, *fileURL, models.FileResourceMaterial, materialID, actorID)
	}
	return nil
}

// trackFile records metadata for a stored payload. Failures are logged
// only; the files table is bookkeeping, not the source of truth.
func (p *Publisher) trackFile(ctx context.Context, log zerolog.Logger, fh *multipart.FileHeader, url string, resource models.FileResource, resourceID, actorID int64) {
	_, err := p.files.CreateFile(ctx, &models.File{
		FileName:     fh.Filename,
		FileURL:      url,
		FileSize:     fh.Size,
		MimeType:     fh.Header.Get("Content-Type"),
		ResourceType: resource,
		ResourceID:   resourceID,
		UploadedBy:   actorID,
	})
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Could not record file metadata")
	}
}

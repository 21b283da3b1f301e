// Package publish turns a validated course draft into persisted Course,
// Module and Material records.
//
// Publishing happens in two lifetimes. The synchronous path creates the
// course and all of its modules and returns as soon as the modules are
// confirmed, so large uploads never block the author's workflow. A detached
// background task then uploads the materials one by one, tolerating
// per-item failures, and reports a single summary notification when done.
package publish

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
)

// CourseStore persists course records.
type CourseStore interface {
	CreateCourse(ctx context.Context, c *models.Course) (int64, error)
	UpdateThumbnail(ctx context.Context, courseID int64, url string) error
}

// ModuleStore persists module records.
type ModuleStore interface {
	CreateModule(ctx context.Context, m *models.Module) (int64, error)
}

// MaterialStore persists material records.
type MaterialStore interface {
	CreateMaterial(ctx context.Context, m *models.Material) (int64, error)
}

// BlobStore stores uploaded file payloads and returns an accessible URL.
// *filestorage.LocalStorage satisfies this.
type BlobStore interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)
}

// FileStore tracks stored file metadata. Tracking failures never fail an
// upload; the payload and the material row are authoritative.
type FileStore interface {
	CreateFile(ctx context.Context, f *models.File) (int64, error)
}

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(userID int64, n Notification)
}

// Files carries the upload bound to each draft material, keyed by the
// material's client-generated ID. Materials without an upload are absent.
type Files map[string]*multipart.FileHeader

// Receipt is returned to the caller once the synchronous part of a
// submission has completed.
type Receipt struct {
	CourseID  int64
	ModuleIDs []int64 // in chapter order

	// Done receives the upload summary exactly once, when the background
	// uploader finishes. The caller is free to ignore it; the summary
	// notification is delivered through the Notifier either way.
	Done <-chan Summary
}

// ChapterError reports the chapter whose module could not be created.
// Module creation is fatal: without a target module, materials cannot be
// attached, so the whole submission is aborted.
type ChapterError struct {
	Chapter string
	Err     error
}

func (e *ChapterError) Error() string {
	return fmt.Sprintf("could not create module for chapter %q: %v", e.Chapter, e.Err)
}

func (e *ChapterError) Unwrap() error { return e.Err }

// Publisher orchestrates course submission.
type Publisher struct {
	courses   CourseStore
	modules   ModuleStore
	materials MaterialStore
	blobs     BlobStore
	files     FileStore
	notifier  Notifier
	logger    zerolog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(
	courses CourseStore,
	modules ModuleStore,
	materials MaterialStore,
	blobs BlobStore,
	files FileStore,
	notifier Notifier,
	logger zerolog.Logger,
) *Publisher {
	return &Publisher{
		courses:   courses,
		modules:   modules,
		materials: materials,
		blobs:     blobs,
		files:     files,
		notifier:  notifier,
		logger:    logger,
	}
}

// Publish submits a validated draft. In strict sequence it creates the
// course, uploads the thumbnail (non-fatal), and creates one module per
// chapter preserving chapter order. All module creations are issued
// together and awaited as one barrier; any failure aborts the submission.
// Once every module is confirmed, Publish returns and material upload
// continues in the background, detached from ctx.
//
// No compensating delete is performed on failure: if module creation fails
// after the course row exists, the course is left for manual cleanup.
func (p *Publisher) Publish(ctx context.Context, d draft.Draft, files Files, thumbnail *multipart.FileHeader, actorID int64) (*Receipt, error) {
	course := courseFromDraft(d)

	courseID, err := p.courses.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	log := p.logger.With().Int64("courseId", courseID).Logger()
	log.Info().Str("title", course.Title).Msg("Course record created")

	// Thumbnail failures are logged and skipped, the submission proceeds.
	if thumbnail != nil {
		if url, err := p.blobs.SaveFileWithPath(thumbnail, "thumbnails"); err != nil {
			log.Warn().Err(err).Msg("Thumbnail upload failed, continuing without it")
		} else if err := p.courses.UpdateThumbnail(ctx, courseID, url); err != nil {
			log.Warn().Err(err).Msg("Thumbnail update failed, continuing without it")
		} else {
			p.trackFile(ctx, log, thumbnail, url, models.FileResourceThumbnail, courseID, actorID)
		}
	}

	moduleIDs := make([]int64, len(d.Chapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, ch := range d.Chapters {
		g.Go(func() error {
			id, err := p.modules.CreateModule(gctx, &models.Module{
				CourseID:    courseID,
				Title:       ch.Title,
				Description: ch.Description,
				Position:    i + 1,
			})
			if err != nil {
				return &ChapterError{Chapter: ch.Title, Err: err}
			}
			moduleIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Module creation failed, aborting submission")
		return nil, err
	}
	log.Info().Int("modules", len(moduleIDs)).Msg("All modules confirmed")

	jobs := make([]moduleJob, len(d.Chapters))
	for i, ch := range d.Chapters {
		jobs[i] = moduleJob{ModuleID: moduleIDs[i], Chapter: ch}
	}

	// Success is signalled to the caller now; material upload runs on a
	// background context so it outlives the navigated-away request.
	done := make(chan Summary, 1)
	go func() {
		summary := p.uploadMaterials(context.Background(), log, courseID, actorID, jobs, files)
		p.notifier.Notify(actorID, summary.Notification())
		done <- summary
	}()

	return &Receipt{CourseID: courseID, ModuleIDs: moduleIDs, Done: done}, nil
}

// courseFromDraft maps the draft onto a course record. Level and duration
// are optional and only carried over when present and valid; the price of
// a free course is zero regardless of what was typed.
func courseFromDraft(d draft.Draft) *models.Course {
	course := &models.Course{
		Title:         d.Title,
		Description:   d.Description,
		IsPaid:        d.IsPaid,
		TutorID:       d.TutorID,
		Status:        models.CourseStatusDraft,
		Requirements:  d.Requirements,
		Prerequisites: d.Prerequisites,
	}
	if course.Requirements == nil {
		course.Requirements = []string{}
	}
	if course.Prerequisites == nil {
		course.Prerequisites = []string{}
	}
	if d.IsPaid {
		if price, err := strconv.ParseFloat(d.Price, 64); err == nil && price > 0 {
			course.Price = price
		}
	}
	if d.Level.Valid() {
		level := d.Level
		course.Level = &level
	}
	if d.Duration != "" {
		duration := d.Duration
		course.Duration = &duration
	}
	return course
}

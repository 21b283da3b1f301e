package publish

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/draft"
	"github.com/classforge/classforge/internal/app/models"
)

type fakeCourseStore struct {
	mu         sync.Mutex
	created    *models.Course
	thumbnail  string
	createErr  error
	updateErr  error
	nextCourse int64
}

func (f *fakeCourseStore) CreateCourse(_ context.Context, c *models.Course) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = c
	if f.nextCourse == 0 {
		f.nextCourse = 100
	}
	return f.nextCourse, nil
}

func (f *fakeCourseStore) UpdateThumbnail(_ context.Context, _ int64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.thumbnail = url
	return nil
}

type fakeModuleStore struct {
	mu       sync.Mutex
	created  []*models.Module
	failFor  string // chapter title whose creation fails
	createID func(m *models.Module) int64
}

func (f *fakeModuleStore) CreateModule(_ context.Context, m *models.Module) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && m.Title == f.failFor {
		return 0, errors.New("insert failed")
	}
	f.created = append(f.created, m)
	if f.createID != nil {
		return f.createID(m), nil
	}
	return int64(1000 + m.Position), nil
}

type fakeMaterialStore struct {
	mu      sync.Mutex
	created []*models.Material
	failFor string // material title whose creation fails
}

func (f *fakeMaterialStore) CreateMaterial(_ context.Context, m *models.Material) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && m.Title == f.failFor {
		return 0, errors.New("insert failed")
	}
	f.created = append(f.created, m)
	return int64(len(f.created)), nil
}

func (f *fakeMaterialStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeBlobStore struct {
	mu       sync.Mutex
	saved    []string
	failFor  string // file name whose save fails
	panicFor string // file name whose save panics
}

func (f *fakeBlobStore) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicFor != "" && fh.Filename == f.panicFor {
		panic("corrupted upload buffer")
	}
	if f.failFor != "" && fh.Filename == f.failFor {
		return "", errors.New("disk full")
	}
	url := fmt.Sprintf("/uploads/%s/%s", subPath, fh.Filename)
	f.saved = append(f.saved, url)
	return url, nil
}

type fakeFileStore struct {
	mu      sync.Mutex
	tracked []*models.File
}

func (f *fakeFileStore) CreateFile(_ context.Context, file *models.File) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, file)
	return int64(len(f.tracked)), nil
}

func (f *fakeFileStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracked)
}

type fakeNotifier struct {
	mu     sync.Mutex
	userID int64
	sent   []Notification
}

func (f *fakeNotifier) Notify(userID int64, n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = userID
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) notifications() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.sent...)
}

type fixture struct {
	courses   *fakeCourseStore
	modules   *fakeModuleStore
	materials *fakeMaterialStore
	blobs     *fakeBlobStore
	files     *fakeFileStore
	notifier  *fakeNotifier
	publisher *Publisher
}

func newFixture() *fixture {
	f := &fixture{
		courses:   &fakeCourseStore{},
		modules:   &fakeModuleStore{},
		materials: &fakeMaterialStore{},
		blobs:     &fakeBlobStore{},
		files:     &fakeFileStore{},
		notifier:  &fakeNotifier{},
	}
	f.publisher = NewPublisher(f.courses, f.modules, f.materials, f.blobs, f.files, f.notifier, zerolog.Nop())
	return f
}

func header(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func submittableDraft() (draft.Draft, Files) {
	d := draft.Draft{
		Title:       "Intro to Algebra",
		Description: "A gentle introduction to algebra.",
		TutorID:     7,
		IsPaid:      true,
		Price:       "49.99",
		Chapters: []draft.Chapter{
			{
				ID:    "ch-1",
				Title: "Basics",
				Materials: []draft.Material{
					{ID: "m-1", Title: "Welcome", Type: models.MaterialVideo, FileName: "welcome.mp4"},
					{ID: "m-2", Title: "Syllabus", Type: models.MaterialPDF, FileName: "syllabus.pdf"},
				},
			},
			{
				ID:    "ch-2",
				Title: "Equations",
				Materials: []draft.Material{
					{ID: "m-3", Title: "Reference", Type: models.MaterialLink, URL: "https://example.com/ref"},
				},
			},
		},
	}
	files := Files{
		"m-1": header("welcome.mp4"),
		"m-2": header("syllabus.pdf"),
	}
	return d, files
}

func waitSummary(t *testing.T, done <-chan Summary) Summary {
	t.Helper()
	select {
	case s := <-done:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("background uploader never finished")
		return Summary{}
	}
}

func TestPublishHappyPath(t *testing.T) {
	f := newFixture()
	d, files := submittableDraft()

	receipt, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if receipt.CourseID != 100 {
		t.Errorf("CourseID = %d, want 100", receipt.CourseID)
	}
	// Module IDs come back in chapter order regardless of creation order.
	if len(receipt.ModuleIDs) != 2 || receipt.ModuleIDs[0] != 1001 || receipt.ModuleIDs[1] != 1002 {
		t.Errorf("ModuleIDs = %v, want [1001 1002]", receipt.ModuleIDs)
	}
	positions := map[string]int{}
	for _, m := range f.modules.created {
		positions[m.Title] = m.Position
	}
	if positions["Basics"] != 1 || positions["Equations"] != 2 {
		t.Errorf("module positions %v do not follow chapter order", positions)
	}

	summary := waitSummary(t, receipt.Done)
	if summary.Uploaded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 uploaded, 0 failed", summary)
	}
	if !summary.HasVideo {
		t.Error("summary should flag the video material")
	}

	if got := f.materials.count(); got != 3 {
		t.Fatalf("created %d materials, want 3", got)
	}
	link := f.materials.created[2]
	if link.FileURL == nil || *link.FileURL != "https://example.com/ref" {
		t.Errorf("link material URL = %v, want the external URL", link.FileURL)
	}
	if link.ModuleID != 1002 {
		t.Errorf("link material attached to module %d, want 1002", link.ModuleID)
	}

	// Two file-backed materials, no thumbnail.
	if got := f.files.count(); got != 2 {
		t.Errorf("tracked %d file records, want 2", got)
	}

	notes := f.notifier.notifications()
	if len(notes) != 1 {
		t.Fatalf("got %d notifications, want exactly 1", len(notes))
	}
	if notes[0].Severity != SeveritySuccess {
		t.Errorf("severity = %s, want SUCCESS", notes[0].Severity)
	}
	if f.notifier.userID != 42 {
		t.Errorf("notified user %d, want 42", f.notifier.userID)
	}
}

func TestPublishCourseCreationFails(t *testing.T) {
	f := newFixture()
	f.courses.createErr = errors.New("connection refused")
	d, files := submittableDraft()

	if _, err := f.publisher.Publish(context.Background(), d, files, nil, 42); err == nil {
		t.Fatal("expected an error")
	}
	if len(f.modules.created) != 0 {
		t.Error("modules were created despite the course failing")
	}
}

func TestPublishModuleFailureAbortsNamingChapter(t *testing.T) {
	f := newFixture()
	f.modules.failFor = "Equations"
	d, files := submittableDraft()

	_, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err == nil {
		t.Fatal("expected an error")
	}
	var chapterErr *ChapterError
	if !errors.As(err, &chapterErr) {
		t.Fatalf("error %v is not a ChapterError", err)
	}
	if chapterErr.Chapter != "Equations" {
		t.Errorf("ChapterError names %q, want \"Equations\"", chapterErr.Chapter)
	}
	if !strings.Contains(err.Error(), "Equations") {
		t.Errorf("error message %q does not name the chapter", err.Error())
	}
	if got := f.materials.count(); got != 0 {
		t.Errorf("%d materials uploaded despite the aborted submission", got)
	}
	if len(f.notifier.notifications()) != 0 {
		t.Error("a notification was sent for an aborted submission")
	}
}

func TestPublishThumbnailFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.blobs.failFor = "cover.png"
	d, files := submittableDraft()

	receipt, err := f.publisher.Publish(context.Background(), d, files, header("cover.png"), 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.courses.thumbnail != "" {
		t.Errorf("thumbnail recorded as %q despite the failed upload", f.courses.thumbnail)
	}

	summary := waitSummary(t, receipt.Done)
	if summary.Failed != 0 {
		t.Errorf("thumbnail failure leaked into the material tally: %+v", summary)
	}
}

func TestPublishThumbnailStored(t *testing.T) {
	f := newFixture()
	d, files := submittableDraft()

	receipt, err := f.publisher.Publish(context.Background(), d, files, header("cover.png"), 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.courses.thumbnail != "/uploads/thumbnails/cover.png" {
		t.Errorf("thumbnail = %q", f.courses.thumbnail)
	}
	waitSummary(t, receipt.Done)
}

func TestPublishPartialUploadFailure(t *testing.T) {
	f := newFixture()
	f.blobs.failFor = "syllabus.pdf"
	d, files := submittableDraft()

	receipt, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	summary := waitSummary(t, receipt.Done)
	if summary.Uploaded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 uploaded, 1 failed", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Material != "Syllabus" {
		t.Errorf("failures = %+v, want the syllabus recorded", summary.Failures)
	}

	notes := f.notifier.notifications()
	if len(notes) != 1 || notes[0].Severity != SeverityWarning {
		t.Fatalf("notifications = %+v, want one warning", notes)
	}
	if !strings.Contains(notes[0].Message, "2 materials uploaded, 1 failed") {
		t.Errorf("message %q is missing the counts", notes[0].Message)
	}
}

func TestPublishMissingFileFailsOnlyThatMaterial(t *testing.T) {
	f := newFixture()
	d, files := submittableDraft()
	delete(files, "m-1")

	receipt, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	summary := waitSummary(t, receipt.Done)
	if summary.Uploaded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 uploaded, 1 failed", summary)
	}
}

func TestPublishAllUploadsFail(t *testing.T) {
	f := newFixture()
	f.materials.failFor = "Welcome"
	f.blobs.failFor = "syllabus.pdf"
	d, _ := submittableDraft()
	d.Chapters = d.Chapters[:1] // video + pdf only

	receipt, err := f.publisher.Publish(context.Background(), d, Files{
		"m-1": header("welcome.mp4"),
		"m-2": header("syllabus.pdf"),
	}, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	summary := waitSummary(t, receipt.Done)
	if summary.Uploaded != 0 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 0 uploaded, 2 failed", summary)
	}
	notes := f.notifier.notifications()
	if len(notes) != 1 || notes[0].Severity != SeverityError {
		t.Fatalf("notifications = %+v, want one error", notes)
	}
}

func TestPublishUploadPanicYieldsUndeterminedWarning(t *testing.T) {
	f := newFixture()
	f.blobs.panicFor = "welcome.mp4"
	d, files := submittableDraft()

	receipt, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	summary := waitSummary(t, receipt.Done)
	if !summary.Undetermined {
		t.Errorf("summary = %+v, want Undetermined", summary)
	}

	notes := f.notifier.notifications()
	if len(notes) != 1 {
		t.Fatalf("got %d notifications, want exactly 1", len(notes))
	}
	if notes[0].Severity != SeverityWarning {
		t.Errorf("severity = %s, want WARNING", notes[0].Severity)
	}
}

func TestPublishFreeCourseZeroesPrice(t *testing.T) {
	f := newFixture()
	d, files := submittableDraft()
	d.IsPaid = false
	d.Price = "49.99"

	receipt, err := f.publisher.Publish(context.Background(), d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.courses.created.Price != 0 {
		t.Errorf("free course priced at %v", f.courses.created.Price)
	}
	if f.courses.created.Status != models.CourseStatusDraft {
		t.Errorf("new course status = %s, want DRAFT", f.courses.created.Status)
	}
	waitSummary(t, receipt.Done)
}

func TestPublishOutlivesRequestContext(t *testing.T) {
	f := newFixture()
	d, files := submittableDraft()

	ctx, cancel := context.WithCancel(context.Background())
	receipt, err := f.publisher.Publish(ctx, d, files, nil, 42)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// The request ends as soon as the receipt is returned; uploads keep going.
	cancel()

	summary := waitSummary(t, receipt.Done)
	if summary.Uploaded != 3 {
		t.Errorf("uploaded %d materials after cancellation, want 3", summary.Uploaded)
	}
}

package draft

import (
	"testing"

	"github.com/classforge/classforge/internal/app/models"
)

func TestChapterMutationsAreCopies(t *testing.T) {
	base := New().
		WithBasicInfo("Go for Gophers", "Learn Go with practical projects.", 3).
		AddChapter(Chapter{ID: "ch-1", Title: "Setup"}).
		AddChapter(Chapter{ID: "ch-2", Title: "Syntax"})

	added := base.AddMaterial("ch-1", Material{ID: "m-1", Title: "Install Go", Type: models.MaterialVideo, FileName: "install.mp4"})
	if n := len(base.Chapters[0].Materials); n != 0 {
		t.Fatalf("AddMaterial mutated the original draft, got %d materials", n)
	}
	if n := len(added.Chapters[0].Materials); n != 1 {
		t.Fatalf("got %d materials in the new draft, want 1", n)
	}

	removed := added.RemoveChapter("ch-1")
	if len(removed.Chapters) != 1 || removed.Chapters[0].ID != "ch-2" {
		t.Errorf("RemoveChapter left %+v", removed.Chapters)
	}
	if len(added.Chapters) != 2 {
		t.Errorf("RemoveChapter mutated the original draft")
	}

	if got := added.RemoveChapter("no-such"); len(got.Chapters) != 2 {
		t.Errorf("removing an unknown chapter dropped chapters: %+v", got.Chapters)
	}
}

func TestRemoveMaterial(t *testing.T) {
	d := New().
		AddChapter(Chapter{ID: "ch-1", Title: "Basics"}).
		AddMaterial("ch-1", Material{ID: "m-1", Title: "One", Type: models.MaterialPDF, FileName: "one.pdf"}).
		AddMaterial("ch-1", Material{ID: "m-2", Title: "Two", Type: models.MaterialPDF, FileName: "two.pdf"})

	got := d.RemoveMaterial("ch-1", "m-1")
	if len(got.Chapters[0].Materials) != 1 || got.Chapters[0].Materials[0].ID != "m-2" {
		t.Errorf("RemoveMaterial left %+v", got.Chapters[0].Materials)
	}
	if len(d.Chapters[0].Materials) != 2 {
		t.Errorf("RemoveMaterial mutated the original draft")
	}
}

func TestAddMaterialUnknownChapterIsNoop(t *testing.T) {
	d := New().AddChapter(Chapter{ID: "ch-1"})
	got := d.AddMaterial("no-such", Material{ID: "m-1"})
	if got.MaterialCount() != 0 {
		t.Errorf("material landed somewhere: %+v", got.Chapters)
	}
}

func TestHasVideoAndMaterialCount(t *testing.T) {
	d := New().
		AddChapter(Chapter{ID: "ch-1"}).
		AddMaterial("ch-1", Material{ID: "m-1", Type: models.MaterialPDF})
	if d.HasVideo() {
		t.Error("HasVideo true without any video material")
	}
	d = d.AddMaterial("ch-1", Material{ID: "m-2", Type: models.MaterialVideo})
	if !d.HasVideo() {
		t.Error("HasVideo false with a video material")
	}
	if got := d.MaterialCount(); got != 2 {
		t.Errorf("MaterialCount = %d, want 2", got)
	}
}

package draft

import (
	"strings"
	"testing"

	"github.com/classforge/classforge/internal/app/models"
)

func validDraft() Draft {
	return Draft{
		Title:       "Intro to Algebra",
		Description: "A gentle introduction to algebra for beginners.",
		TutorID:     7,
		IsPaid:      false,
		Chapters: []Chapter{
			{
				ID:    "ch-1",
				Title: "Basics",
				Materials: []Material{
					{ID: "m-1", Title: "Welcome", Type: models.MaterialVideo, FileName: "welcome.mp4"},
					{ID: "m-2", Title: "Syllabus", Type: models.MaterialPDF, FileName: "syllabus.pdf"},
				},
			},
			{
				ID:    "ch-2",
				Title: "Equations",
				Materials: []Material{
					{ID: "m-3", Title: "Khan Academy", Type: models.MaterialLink, URL: "https://khanacademy.org"},
				},
			},
		},
	}
}

func TestValidateStepBasicInfo(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Draft)
		adminActor bool
		wantFields []string
	}{
		{
			name:   "valid draft has no errors",
			mutate: func(d *Draft) {},
		},
		{
			name:       "empty title and description collected together",
			mutate:     func(d *Draft) { d.Title = ""; d.Description = "" },
			wantFields: []string{"title", "description"},
		},
		{
			name:       "whitespace-only title rejected",
			mutate:     func(d *Draft) { d.Title = "   " },
			wantFields: []string{"title"},
		},
		{
			name:       "overlong title rejected",
			mutate:     func(d *Draft) { d.Title = strings.Repeat("x", MaxTitleLength+1) },
			wantFields: []string{"title"},
		},
		{
			name:   "multibyte title measured in characters",
			mutate: func(d *Draft) { d.Title = strings.Repeat("ü", MaxTitleLength) },
		},
		{
			name:       "overlong multibyte title rejected",
			mutate:     func(d *Draft) { d.Title = strings.Repeat("ü", MaxTitleLength+1) },
			wantFields: []string{"title"},
		},
		{
			name:       "short description rejected",
			mutate:     func(d *Draft) { d.Description = "too short" },
			wantFields: []string{"description"},
		},
		{
			name:       "short multibyte description rejected despite byte length",
			mutate:     func(d *Draft) { d.Description = "数学の基礎" },
			wantFields: []string{"description"},
		},
		{
			name:       "admin must assign a tutor",
			mutate:     func(d *Draft) { d.TutorID = 0 },
			adminActor: true,
			wantFields: []string{"tutorId"},
		},
		{
			name:   "tutor actor needs no explicit assignment",
			mutate: func(d *Draft) { d.TutorID = 0 },
		},
		{
			name:       "unknown level rejected",
			mutate:     func(d *Draft) { d.Level = "EXPERT" },
			wantFields: []string{"level"},
		},
		{
			name:   "empty level accepted",
			mutate: func(d *Draft) { d.Level = "" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			errs := ValidateStep(d, StepBasicInfo, tt.adminActor)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateStepDetails(t *testing.T) {
	tests := []struct {
		name       string
		isPaid     bool
		price      string
		wantFields []string
	}{
		{name: "free course ignores price", isPaid: false, price: "garbage"},
		{name: "paid course needs a price", isPaid: true, price: "", wantFields: []string{"price"}},
		{name: "non-numeric price rejected", isPaid: true, price: "abc", wantFields: []string{"price"}},
		{name: "zero price rejected", isPaid: true, price: "0", wantFields: []string{"price"}},
		{name: "negative price rejected", isPaid: true, price: "-5", wantFields: []string{"price"}},
		{name: "excessive price rejected", isPaid: true, price: "1000000", wantFields: []string{"price"}},
		{name: "decimal price accepted", isPaid: true, price: "49.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft().WithPricing(tt.isPaid, tt.price)
			errs := ValidateStep(d, StepDetails, false)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateStepContent(t *testing.T) {
	t.Run("no chapters", func(t *testing.T) {
		d := validDraft()
		d.Chapters = nil
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{"chapters"})
	})

	t.Run("empty chapter names itself in the message", func(t *testing.T) {
		d := validDraft()
		d.Chapters[1].Materials = nil
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{"chapters[1].materials"})
		if msg := errs["chapters[1].materials"]; !strings.Contains(msg, `"Equations"`) {
			t.Errorf("message %q does not name the chapter", msg)
		}
	})

	t.Run("untitled chapter falls back to its number", func(t *testing.T) {
		d := validDraft()
		d.Chapters[0].Title = ""
		d.Chapters[0].Materials = nil
		errs := ValidateStep(d, StepContent, false)
		if msg := errs["chapters[0].materials"]; !strings.Contains(msg, "Chapter 1") {
			t.Errorf("message %q does not fall back to the chapter number", msg)
		}
	})

	t.Run("file-backed material without a file", func(t *testing.T) {
		d := validDraft()
		d.Chapters[0].Materials[0].FileName = ""
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{"chapters[0].materials[0].file"})
	})

	t.Run("link material without a URL", func(t *testing.T) {
		d := validDraft()
		d.Chapters[1].Materials[0].URL = ""
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{"chapters[1].materials[0].url"})
	})

	t.Run("unknown material type skips file checks", func(t *testing.T) {
		d := validDraft()
		d.Chapters[0].Materials[0].Type = "HOLOGRAM"
		d.Chapters[0].Materials[0].FileName = ""
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{"chapters[0].materials[0].type"})
	})

	t.Run("all violations collected across chapters", func(t *testing.T) {
		d := validDraft()
		d.Chapters[0].Materials[0].Title = ""
		d.Chapters[0].Materials[1].FileName = ""
		d.Chapters[1].Materials[0].URL = ""
		errs := ValidateStep(d, StepContent, false)
		assertFields(t, errs, []string{
			"chapters[0].materials[0].title",
			"chapters[0].materials[1].file",
			"chapters[1].materials[0].url",
		})
	})
}

func TestValidateStepReviewHasNoRules(t *testing.T) {
	errs := ValidateStep(Draft{}, StepReview, true)
	if len(errs) != 0 {
		t.Errorf("review step produced errors: %v", errs)
	}
}

func TestValidateForSubmit(t *testing.T) {
	t.Run("valid draft passes", func(t *testing.T) {
		if errs := ValidateForSubmit(validDraft(), false); len(errs) != 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("violations from every step collected", func(t *testing.T) {
		d := validDraft()
		d.Title = ""
		d.IsPaid = true
		d.Price = ""
		d.Chapters = nil
		errs := ValidateForSubmit(d, true)
		assertFields(t, errs, []string{"title", "price", "chapters"})
	})
}

func TestErrorsKeepFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add("title", "first")
	errs.Add("title", "second")
	if errs["title"] != "first" {
		t.Errorf("got %q, want the first message kept", errs["title"])
	}
	if got := errs.Messages(); len(got) != 1 {
		t.Errorf("got %d messages, want 1", len(got))
	}
}

// assertFields checks that exactly the wanted field paths are present.
func assertFields(t *testing.T, errs Errors, want []string) {
	t.Helper()
	if len(errs) != len(want) {
		t.Errorf("got %d errors %v, want %d for fields %v", len(errs), errs, len(want), want)
	}
	for _, field := range want {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for field %q in %v", field, errs)
		}
	}
}

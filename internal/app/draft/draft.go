// Package draft models a course being authored before it is persisted.
//
// A Draft is a plain value: every mutation helper returns a new Draft and
// never touches the receiver, so the authoring flow can pass drafts through
// pure validation and transform functions without shared state.
package draft

import "github.com/classforge/classforge/internal/app/models"

// Material is a single piece of draft content. Its ID is client-generated
// and only meaningful within the draft; the persisted Material gets a
// database ID at upload time.
type Material struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Type        models.MaterialType `json:"type"`
	URL         string              `json:"url,omitempty"`
	Description string              `json:"description,omitempty"`
	// FileName is the name of the upload bound to this material, empty when
	// no file has been attached yet. File bytes travel separately in the
	// multipart submission, keyed by the material ID.
	FileName string `json:"fileName,omitempty"`
}

// HasFile reports whether an upload is bound to the material.
func (m Material) HasFile() bool {
	return m.FileName != ""
}

// Chapter is a named ordered group of draft materials. It becomes a Module
// when the course is submitted.
type Chapter struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Materials   []Material `json:"materials"`
}

// Draft is the in-memory, not-yet-persisted representation of a course.
type Draft struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Level         models.CourseLevel `json:"level,omitempty"`
	IsPaid        bool               `json:"isPaid"`
	Price         string             `json:"price,omitempty"` // as typed by the author, parsed at validation
	Duration      string             `json:"duration,omitempty"`
	TutorID       int64              `json:"tutorId,omitempty"`
	ThumbnailName string             `json:"thumbnailName,omitempty"`
	Requirements  []string           `json:"requirements"`
	Prerequisites []string           `json:"prerequisites"`
	Chapters      []Chapter          `json:"chapters"`
}

// New returns an empty draft, the state of the wizard on mount.
func New() Draft {
	return Draft{}
}

// WithBasicInfo returns a copy of the draft with the step-1 fields set.
func (d Draft) WithBasicInfo(title, description string, tutorID int64) Draft {
	d.Title = title
	d.Description = description
	d.TutorID = tutorID
	return d
}

// WithPricing returns a copy of the draft with the pricing fields set.
func (d Draft) WithPricing(isPaid bool, price string) Draft {
	d.IsPaid = isPaid
	d.Price = price
	return d
}

// AddChapter returns a copy of the draft with the chapter appended.
func (d Draft) AddChapter(c Chapter) Draft {
	d.Chapters = append(copyChapters(d.Chapters), c)
	return d
}

// RemoveChapter returns a copy of the draft without the named chapter.
// Removing an unknown ID is a no-op.
func (d Draft) RemoveChapter(chapterID string) Draft {
	out := make([]Chapter, 0, len(d.Chapters))
	for _, c := range d.Chapters {
		if c.ID != chapterID {
			out = append(out, c)
		}
	}
	d.Chapters = out
	return d
}

// AddMaterial returns a copy of the draft with the material appended to the
// named chapter. Adding to an unknown chapter is a no-op.
func (d Draft) AddMaterial(chapterID string, m Material) Draft {
	chapters := copyChapters(d.Chapters)
	for i := range chapters {
		if chapters[i].ID == chapterID {
			chapters[i].Materials = append(copyMaterials(chapters[i].Materials), m)
		}
	}
	d.Chapters = chapters
	return d
}

// RemoveMaterial returns a copy of the draft without the named material.
func (d Draft) RemoveMaterial(chapterID, materialID string) Draft {
	chapters := copyChapters(d.Chapters)
	for i := range chapters {
		if chapters[i].ID != chapterID {
			continue
		}
		out := make([]Material, 0, len(chapters[i].Materials))
		for _, m := range chapters[i].Materials {
			if m.ID != materialID {
				out = append(out, m)
			}
		}
		chapters[i].Materials = out
	}
	d.Chapters = chapters
	return d
}

// HasVideo reports whether any material in the draft is a video.
func (d Draft) HasVideo() bool {
	for _, c := range d.Chapters {
		for _, m := range c.Materials {
			if m.Type == models.MaterialVideo {
				return true
			}
		}
	}
	return false
}

// MaterialCount returns the total number of materials across all chapters.
func (d Draft) MaterialCount() int {
	n := 0
	for _, c := range d.Chapters {
		n += len(c.Materials)
	}
	return n
}

func copyChapters(in []Chapter) []Chapter {
	out := make([]Chapter, len(in))
	copy(out, in)
	return out
}

func copyMaterials(in []Material) []Material {
	out := make([]Material, len(in))
	copy(out, in)
	return out
}

package models

import "time"

// Course represents a course authored by a tutor.
type Course struct {
	ID            int64        `json:"id" db:"id"`
	Title         string       `json:"title" db:"title"`
	Description   string       `json:"description" db:"description"`
	Level         *CourseLevel `json:"level,omitempty" db:"level"`       // nullable
	Duration      *string      `json:"duration,omitempty" db:"duration"` // free-form, e.g. "6 weeks"
	IsPaid        bool         `json:"isPaid" db:"is_paid"`
	Price         float64      `json:"price" db:"price"`
	TutorID       int64        `json:"tutorId" db:"tutor_id"`
	Status        CourseStatus `json:"status" db:"status"`
	ThumbnailURL  *string      `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	Requirements  []string     `json:"requirements" db:"requirements"`
	Prerequisites []string     `json:"prerequisites" db:"prerequisites"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Tutor   *User    `json:"tutor,omitempty"`
	Modules []Module `json:"modules,omitempty"`
}

// Module is a named ordered group of materials within a course.
type Module struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"` // 1-based order within the course
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Materials []Material `json:"materials,omitempty"`
}

// Material is a single piece of course content belonging to a module.
type Material struct {
	ID          int64        `json:"id" db:"id"`
	CourseID    int64        `json:"courseId" db:"course_id"`
	ModuleID    int64        `json:"moduleId" db:"module_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description,omitempty" db:"description"`
	Type        MaterialType `json:"type" db:"type"`
	Position    int          `json:"position" db:"position"` // 1-based order within the module
	FileURL     *string      `json:"fileUrl,omitempty" db:"file_url"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

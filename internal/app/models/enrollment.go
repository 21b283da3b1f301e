package models

import "time"

// EnrollmentStatus represents the state of a student's enrollment
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
)

// Enrollment links a student to a course.
type Enrollment struct {
	ID        int64            `json:"id" db:"id"`
	CourseID  int64            `json:"courseId" db:"course_id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Status    EnrollmentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Student *User   `json:"student,omitempty"`
	Course  *Course `json:"course,omitempty"`
}

// Progress records a student's completion of a single material.
type Progress struct {
	ID           int64      `json:"id" db:"id"`
	EnrollmentID int64      `json:"enrollmentId" db:"enrollment_id"`
	MaterialID   int64      `json:"materialId" db:"material_id"`
	Completed    bool       `json:"completed" db:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

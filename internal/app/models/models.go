package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTutor   RoleType = "TUTOR"
	RoleStudent RoleType = "STUDENT"
)

// CourseLevel represents the difficulty level of a course
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Valid reports whether l is a known course level.
func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// CourseStatus represents the lifecycle state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Valid reports whether s is a known course status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// MaterialType represents the kind of content a material carries
type MaterialType string

const (
	MaterialVideo MaterialType = "VIDEO"
	MaterialPDF   MaterialType = "PDF"
	MaterialLink  MaterialType = "LINK"
)

// Valid reports whether t is a known material type.
func (t MaterialType) Valid() bool {
	switch t {
	case MaterialVideo, MaterialPDF, MaterialLink:
		return true
	}
	return false
}

// FileBacked reports whether materials of this type carry an uploaded file
// rather than an external URL.
func (t MaterialType) FileBacked() bool {
	return t == MaterialVideo || t == MaterialPDF
}

package models

import "time"

// FileResource represents what a stored file is attached to
type FileResource string

const (
	FileResourceThumbnail FileResource = "COURSE_THUMBNAIL"
	FileResourceMaterial  FileResource = "MATERIAL"
)

// File represents an uploaded file tracked in the 'files' table
type File struct {
	ID           int64        `json:"id" db:"id"`
	FileName     string       `json:"fileName" db:"file_name"`
	FileURL      string       `json:"fileUrl" db:"file_url"`
	FileSize     int64        `json:"fileSize" db:"file_size"`
	MimeType     string       `json:"mimeType" db:"mime_type"`
	ResourceType FileResource `json:"resourceType" db:"resource_type"`
	ResourceID   int64        `json:"resourceId" db:"resource_id"`
	UploadedBy   int64        `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}

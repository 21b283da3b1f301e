package filestorage

import "mime/multipart"

// FileStorage defines the interface for file storage operations.
type FileStorage interface {
	// SaveFile saves a file under the storage root and returns its URL.
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves a file under a subdirectory of the storage root.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(fileURL string) error
}

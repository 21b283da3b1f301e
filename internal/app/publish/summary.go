package publish

import "fmt"

// Severity classifies a notification for the client's toast styling.
type Severity string

const (
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Notification is the single user-facing message emitted when the
// background uploader completes.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Summary is the tally accumulated by the background uploader.
type Summary struct {
	Uploaded int
	Failed   int
	HasVideo bool
	// Undetermined is set when the upload loop was cut short by a panic,
	// so the counts may not cover every queued material.
	Undetermined bool
	Failures     []MaterialFailure
}

// Notification maps the tally onto the one summary message shown to the
// author:
//
//	all uploaded, has video  -> success, mentions video processing time
//	all uploaded             -> plain success
//	some uploaded, some fail -> warning with counts and re-upload guidance
//	all failed               -> error, directs the author to edit the course
//
// An undetermined run gets a generic warning instead of fabricated counts.
func (s Summary) Notification() Notification {
	switch {
	case s.Undetermined:
		return Notification{
			Severity: SeverityWarning,
			Message:  "Course created, but some materials may not have been uploaded. Review the course content and re-upload anything missing.",
		}
	case s.Failed == 0 && s.HasVideo:
		return Notification{
			Severity: SeveritySuccess,
			Message:  "Course created successfully. Videos may take a few minutes to process before they are available.",
		}
	case s.Failed == 0:
		return Notification{
			Severity: SeveritySuccess,
			Message:  "Course created successfully.",
		}
	case s.Uploaded > 0:
		return Notification{
			Severity: SeverityWarning,
			Message: fmt.Sprintf(
				"Course created: %d materials uploaded, %d failed. Edit the course to re-upload the failed materials.",
				s.Uploaded, s.Failed,
			),
		}
	default:
		return Notification{
			Severity: SeverityError,
			Message:  "Course was created but its materials could not be uploaded. Edit the course to add them manually.",
		}
	}
}

package publish

import (
	"strings"
	"testing"
)

func TestSummaryNotification(t *testing.T) {
	tests := []struct {
		name         string
		summary      Summary
		wantSeverity Severity
		wantContains string
	}{
		{
			name:         "all uploaded",
			summary:      Summary{Uploaded: 5},
			wantSeverity: SeveritySuccess,
			wantContains: "Course created successfully.",
		},
		{
			name:         "all uploaded with video",
			summary:      Summary{Uploaded: 5, HasVideo: true},
			wantSeverity: SeveritySuccess,
			wantContains: "Videos may take a few minutes to process",
		},
		{
			name:         "partial failure",
			summary:      Summary{Uploaded: 3, Failed: 2},
			wantSeverity: SeverityWarning,
			wantContains: "3 materials uploaded, 2 failed",
		},
		{
			name:         "partial failure with video still warns",
			summary:      Summary{Uploaded: 3, Failed: 2, HasVideo: true},
			wantSeverity: SeverityWarning,
			wantContains: "re-upload",
		},
		{
			name:         "total failure",
			summary:      Summary{Uploaded: 0, Failed: 4},
			wantSeverity: SeverityError,
			wantContains: "could not be uploaded",
		},
		{
			name:         "no materials at all counts as success",
			summary:      Summary{},
			wantSeverity: SeveritySuccess,
			wantContains: "Course created successfully.",
		},
		{
			name:         "undetermined run overrides counts",
			summary:      Summary{Uploaded: 5, Undetermined: true},
			wantSeverity: SeverityWarning,
			wantContains: "may not have been uploaded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.summary.Notification()
			if got.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
			if !strings.Contains(got.Message, tt.wantContains) {
				t.Errorf("message %q does not contain %q", got.Message, tt.wantContains)
			}
		})
	}
}

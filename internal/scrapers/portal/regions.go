package portal

import "strings"

const (
	MarkerSubmittedAttachments = "<h5>Submitted Attachments</h5>"
	MarkerAddSubmissionForm    = `id="addSubmissionForm"`
	MarkerOriginalSubmission   = "Original submission text"
	MarkerInstructorComments   = "instructor's comments"
)

// the portal lays out assignment pages differently depending on the kind of
// submission, these are the only stable anchors between the instructions and
// everything below them. order is priority.
var regionMarkers = []string{
	MarkerSubmittedAttachments,
	MarkerAddSubmissionForm,
	MarkerOriginalSubmission,
	MarkerInstructorComments,
}

type Regions struct {
	Instructions string
	// Submission is nil when no marker was found.
	Submission *string
	// Marker is the marker the page was split on, or empty.
	Marker string
}

// SplitRegions splits the markup of an assignment page at the first occurrence
// of the highest priority marker it contains.
func SplitRegions(raw string) Regions {
	for _, marker := range regionMarkers {
		idx := strings.Index(raw, marker)
		if idx < 0 {
			continue
		}
		submission := raw[idx:]
		return Regions{
			Instructions: raw[:idx],
			Submission:   &submission,
			Marker:       marker,
		}
	}
	return Regions{Instructions: raw}
}

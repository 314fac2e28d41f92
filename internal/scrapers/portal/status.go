package portal

import "strings"

type CompletionStatus int

const (
	NotSubmitted CompletionStatus = iota
	Completed
	Returned
)

func (s CompletionStatus) String() string {
	switch s {
	case Completed:
		return "completed"
	case Returned:
		return "returned"
	default:
		return "not_submitted"
	}
}

// StatusFromString derives a status from the text of the portal's status column.
// "Returned" is checked before "Not" since returned rows can read
// "Returned - Not yet viewed".
func StatusFromString(raw string) CompletionStatus {
	switch {
	case strings.TrimSpace(raw) == "":
		return NotSubmitted
	case strings.Contains(raw, "Returned"):
		return Returned
	case strings.Contains(raw, "Not"):
		return NotSubmitted
	default:
		return Completed
	}
}

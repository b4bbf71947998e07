package enums

import "fmt"

// JobStatus tracks the production lifecycle of a single job.
type JobStatus string

const (
	JobStatusReceived  JobStatus = "received"
	JobStatusInProcess JobStatus = "in_process"
	JobStatusCompleted JobStatus = "completed"
	JobStatusRejected  JobStatus = "rejected"
)

var validJobStatuses = []JobStatus{
	JobStatusReceived,
	JobStatusInProcess,
	JobStatusCompleted,
	JobStatusRejected,
}

// String implements fmt.Stringer.
func (j JobStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobStatus.
func (j JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the status.
func (j JobStatus) IsTerminal() bool {
	return j == JobStatusCompleted || j == JobStatusRejected
}

// ParseJobStatus converts raw input into a JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}

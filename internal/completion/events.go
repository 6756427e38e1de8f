package completion

import (
	"errors"
	"fmt"

	"github.com/your-org/vodflow/internal/jobs"
)

// JobStateEvent is the "MediaConvert Job State Change" event envelope.
type JobStateEvent struct {
	ID         string         `json:"id,omitempty"`
	DetailType string         `json:"detail-type,omitempty"`
	Source     string         `json:"source,omitempty"`
	Time       string         `json:"time,omitempty"`
	Detail     JobStateDetail `json:"detail"`
}

type JobStateDetail struct {
	Status       string            `json:"status"`
	JobID        string            `json:"jobId"`
	Queue        string            `json:"queue,omitempty"`
	UserMetadata *jobs.JobMetadata `json:"userMetadata,omitempty"`
}

var errMissingJobID = errors.New("event carries no jobId")

// Outcome validates the event and converts it into a JobOutcome.
func (e JobStateEvent) Outcome() (jobs.JobOutcome, error) {
	if e.Detail.JobID == "" {
		return jobs.JobOutcome{}, errMissingJobID
	}
	status, err := jobs.ParseTerminalStatus(e.Detail.Status)
	if err != nil {
		return jobs.JobOutcome{}, fmt.Errorf("job %s: %w", e.Detail.JobID, err)
	}

	outcome := jobs.JobOutcome{JobID: e.Detail.JobID, Status: status}
	if md := e.Detail.UserMetadata; md != nil {
		outcome.Metadata = *md
		outcome.InputURI = md.InputS3URI
	}
	return outcome, nil
}

// OutputPrefixFor derives the listing prefix from the job's own context.
func OutputPrefixFor(outcome jobs.JobOutcome) string {
	if outcome.Metadata.OutputPrefix != "" {
		return outcome.Metadata.OutputPrefix
	}
	if src, ok := jobs.ParseS3URI(outcome.InputURI); ok {
		return jobs.OutputPrefix(src.Key)
	}
	return jobs.DefaultOutputPrefix()
}

// Result is the envelope returned to the invoking runtime.
type Result struct {
	StatusCode int        `json:"statusCode"`
	Body       ResultBody `json:"body"`
}

type ResultBody struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

package jobs

import (
	"fmt"
	"time"
)

// TerminalStatus is the state a transcode job settles in.
type TerminalStatus string

const (
	StatusComplete TerminalStatus = "COMPLETE"
	StatusError    TerminalStatus = "ERROR"
	StatusCanceled TerminalStatus = "CANCELED"
)

// StatusSubmitted is reported on JOB_STARTED messages. It is never a terminal status.
const StatusSubmitted = "SUBMITTED"

// ParseTerminalStatus rejects anything outside the closed set of terminal states.
func ParseTerminalStatus(raw string) (TerminalStatus, error) {
	switch s := TerminalStatus(raw); s {
	case StatusComplete, StatusError, StatusCanceled:
		return s, nil
	default:
		return "", fmt.Errorf("unrecognized terminal status %q", raw)
	}
}

// EventType identifies a NotificationMessage.
type EventType string

const (
	EventJobStarted   EventType = "JOB_STARTED"
	EventJobCompleted EventType = "JOB_COMPLETED"
	EventJobFailed    EventType = "JOB_FAILED"
)

// EventTypeFor maps a terminal status to the completion event it produces.
func EventTypeFor(status TerminalStatus) EventType {
	if status == StatusComplete {
		return EventJobCompleted
	}
	return EventJobFailed
}

// SourceObject identifies an uploaded file.
type SourceObject struct {
	Container string
	Key       string
}

// URI renders the object as an s3:// locator.
func (o SourceObject) URI() string {
	return fmt.Sprintf("s3://%s/%s", o.Container, o.Key)
}

// TranscodeRequest is handed to the TranscodeJobClient and not kept afterwards.
type TranscodeRequest struct {
	InputURI         string
	OutputPrefix     string
	OutputURI        string
	IdempotencyToken string
}

// TranscodeJob is the handle returned by the transcoder. ID is opaque.
type TranscodeJob struct {
	ID        string
	InputURI  string
	OutputURI string
}

// JobMetadata is the user metadata attached to a job at submission time and
// echoed back on its state change events.
type JobMetadata struct {
	InputS3URI   string `json:"InputS3Uri,omitempty"`
	ProcessedAt  string `json:"ProcessedAt,omitempty"`
	OutputPrefix string `json:"OutputPrefix,omitempty"`
}

// JobOutcome is built from a job state change event.
type JobOutcome struct {
	JobID    string
	Status   TerminalStatus
	InputURI string
	Metadata JobMetadata
}

// OutputFileSet classifies the artifacts a job produced.
type OutputFileSet struct {
	HLSManifest string   `json:"hlsManifest,omitempty"`
	HLSSegments []string `json:"hlsSegments"`
	Thumbnails  []string `json:"thumbnails"`
}

// EmptyOutputFileSet returns a set with no manifest and empty, non-nil sequences.
func EmptyOutputFileSet() OutputFileSet {
	return OutputFileSet{
		HLSSegments: []string{},
		Thumbnails:  []string{},
	}
}

// PublicURLSet holds delivery URLs for the manifest and thumbnails.
type PublicURLSet struct {
	HLSManifest string   `json:"hlsManifest,omitempty"`
	Thumbnails  []string `json:"thumbnails"`
}

// NotificationMessage is the wire contract sent to the queue and broadcast channel.
type NotificationMessage struct {
	EventType   EventType      `json:"eventType"`
	JobID       string         `json:"jobId"`
	Status      string         `json:"status"`
	InputS3URI  string         `json:"inputS3Uri,omitempty"`
	OutputS3URI string         `json:"outputS3UriPrefix,omitempty"`
	OutputFiles *OutputFileSet `json:"outputFiles,omitempty"`
	PublicURLs  *PublicURLSet  `json:"cloudFrontUrls,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

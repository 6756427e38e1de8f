package ingestion

// ObjectCreatedEvent is the S3-style bucket notification delivered for new
// uploads. MinIO and S3 both emit this shape.
type ObjectCreatedEvent struct {
	Records []ObjectCreatedRecord `json:"Records"`
}

type ObjectCreatedRecord struct {
	EventName string   `json:"eventName,omitempty"`
	S3        S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

// S3Object carries the key URL-encoded, with spaces as "+".
type S3Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
	ETag string `json:"eTag,omitempty"`
}

// RecordOutcome reports what happened to one record of a batch.
type RecordOutcome struct {
	Success     bool   `json:"success"`
	InputS3URI  string `json:"inputS3Uri"`
	JobID       string `json:"jobId,omitempty"`
	OutputS3URI string `json:"outputS3UriPrefix,omitempty"`
	Error       string `json:"error,omitempty"`
	err         error
}

// Err returns the underlying error of a failed outcome.
func (o RecordOutcome) Err() error {
	return o.err
}

// BatchResult lists outcomes in input order. Skipped records are absent.
type BatchResult struct {
	Outcomes []RecordOutcome `json:"results"`
}

// Failed counts the failed outcomes.
func (r BatchResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Success {
			n++
		}
	}
	return n
}

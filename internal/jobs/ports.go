package jobs

import "context"

// ArtifactStore is the subset of the object store the pipeline uses.
type ArtifactStore interface {
	Exists(ctx context.Context, container, key string) (bool, error)
	List(ctx context.Context, container, prefix string) ([]string, error)
}

// TranscodeJobClient submits jobs to the managed transcoder.
type TranscodeJobClient interface {
	CreateJob(ctx context.Context, req TranscodeRequest) (TranscodeJob, error)
}

// NotificationQueue is the durable system of record for downstream automation.
type NotificationQueue interface {
	Send(ctx context.Context, msg NotificationMessage) error
}

// BroadcastChannel fans messages out to whoever is listening.
type BroadcastChannel interface {
	Broadcast(ctx context.Context, msg NotificationMessage) error
}

package jobs

import "errors"

var (
	// ErrUnsupportedFormat marks a source whose extension is not transcodable. Not a failure.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrSourceNotFound marks a record whose source object cannot be found.
	ErrSourceNotFound = errors.New("source object not found")
	// ErrJobSubmission marks a transcoder CreateJob failure.
	ErrJobSubmission = errors.New("job submission failed")
	// ErrNotificationDelivery marks a failed send to the durable queue.
	ErrNotificationDelivery = errors.New("notification delivery failed")
	// ErrBroadcastDelivery marks a failed send to the broadcast channel.
	ErrBroadcastDelivery = errors.New("broadcast delivery failed")
	// ErrListing marks a failed artifact listing.
	ErrListing = errors.New("artifact listing failed")
)

package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/vodflow/internal/jobs"
	"github.com/your-org/vodflow/pkg/metrics"
)

// Resolver discovers the artifacts a job wrote under its output prefix.
type Resolver struct {
	store  jobs.ArtifactStore
	bucket string
	logger *zap.Logger
}

func NewResolver(store jobs.ArtifactStore, bucket string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, bucket: bucket, logger: logger}
}

// Resolve lists prefix and classifies what it finds. A listing failure yields
// an empty set so the completion is still announced.
func (r *Resolver) Resolve(ctx context.Context, prefix string) jobs.OutputFileSet {
	start := time.Now()
	keys, err := r.store.List(ctx, r.bucket, prefix)
	metrics.StageDuration.WithLabelValues("list_artifacts").Observe(time.Since(start).Seconds())
	if err != nil {
		r.logger.Error("artifact discovery degraded to empty set",
			zap.String("prefix", prefix),
			zap.Error(fmt.Errorf("%w: %v", jobs.ErrListing, err)),
		)
		return jobs.EmptyOutputFileSet()
	}

	files := Classify(keys)
	metrics.ArtifactsListed.WithLabelValues("segment").Observe(float64(len(files.HLSSegments)))
	metrics.ArtifactsListed.WithLabelValues("thumbnail").Observe(float64(len(files.Thumbnails)))
	r.logger.Info("artifacts resolved",
		zap.String("prefix", prefix),
		zap.String("manifest", files.HLSManifest),
		zap.Int("segments", len(files.HLSSegments)),
		zap.Int("thumbnails", len(files.Thumbnails)),
	)
	return files
}

// Classify partitions keys into manifest, segments and thumbnails, keeping
// listing order. If several manifests match, the last one wins.
func Classify(keys []string) jobs.OutputFileSet {
	files := jobs.EmptyOutputFileSet()
	for _, key := range keys {
		switch {
		case strings.HasSuffix(key, ".m3u8") && strings.Contains(key, "hls/"):
			files.HLSManifest = key
		case strings.HasSuffix(key, ".ts") && strings.Contains(key, "hls/"):
			files.HLSSegments = append(files.HLSSegments, key)
		case (strings.HasSuffix(key, ".jpg") || strings.HasSuffix(key, ".png")) && strings.Contains(key, "thumbnails/"):
			files.Thumbnails = append(files.Thumbnails, key)
		}
	}
	return files
}

// PublicURLs prefixes keys with the delivery domain. Without a domain the set
// has no manifest URL and an empty thumbnail list.
func PublicURLs(domain string, files jobs.OutputFileSet) jobs.PublicURLSet {
	urls := jobs.PublicURLSet{Thumbnails: []string{}}
	if domain == "" {
		return urls
	}
	if files.HLSManifest != "" {
		urls.HLSManifest = deliveryURL(domain, files.HLSManifest)
	}
	for _, thumb := range files.Thumbnails {
		urls.Thumbnails = append(urls.Thumbnails, deliveryURL(domain, thumb))
	}
	return urls
}

func deliveryURL(domain, key string) string {
	return "https://" + domain + "/" + key
}

package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	for _, key := range []string{"a.mp4", "b/c.MOV", "d.avi", "e.MkV", "f.flv", "g.wmv", "my video.mp4"} {
		assert.True(t, IsSupported(key), key)
	}
	for _, key := range []string{"a.txt", "b.m3u8", "noext", "dir.mp4/file", "c.mp4.bak", ""} {
		assert.False(t, IsSupported(key), key)
	}
}

func TestOutputPrefix(t *testing.T) {
	cases := map[string]string{
		"movie.mp4":          "processed/movie/",
		"uploads/2024/a.mov": "processed/uploads/2024/a/",
		"archive.tar.mkv":    "processed/archive.tar/",
		"dir.v2/clip":        "processed/dir.v2/clip/",
		"trailing.":          "processed/trailing./",
	}
	for key, want := range cases {
		assert.Equal(t, want, OutputPrefix(key), key)
	}
}

func TestIdempotencyTokenDeterministicWithinSecond(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 100, time.UTC)
	later := at.Add(800 * time.Millisecond)

	a := IdempotencyToken("uploads", "clip.mp4", at)
	assert.Equal(t, a, IdempotencyToken("uploads", "clip.mp4", later))
	assert.Len(t, a, 32)
}

func TestIdempotencyTokenShortKeyKeepsLeadingTimestampDigits(t *testing.T) {
	// "uploads/clip.mp4/" leaves room for seven of the ten timestamp digits.
	at := time.Unix(1714564000, 0)

	a := IdempotencyToken("uploads", "clip.mp4", at)
	assert.Equal(t, a, IdempotencyToken("uploads", "clip.mp4", at.Add(time.Second)))
	assert.Equal(t, a, IdempotencyToken("uploads", "clip.mp4", at.Add(999*time.Second)))
	assert.NotEqual(t, a, IdempotencyToken("uploads", "clip.mp4", at.Add(1000*time.Second)))
}

func TestIdempotencyTokenLongKeyIsConstantPerObject(t *testing.T) {
	at := time.Unix(1714564000, 0)
	key := "season-01/episode-01.mp4"

	a := IdempotencyToken("uploads", key, at)
	assert.Equal(t, a, IdempotencyToken("uploads", key, at.Add(time.Hour)))
	assert.Equal(t, a, IdempotencyToken("uploads", key, at.AddDate(1, 0, 0)))
	assert.NotEqual(t, a, IdempotencyToken("uploads", "season-02/episode-01.mp4", at))
}

func TestParseS3URI(t *testing.T) {
	obj, ok := ParseS3URI("s3://uploads/dir/clip.mp4")
	assert.True(t, ok)
	assert.Equal(t, SourceObject{Container: "uploads", Key: "dir/clip.mp4"}, obj)
	assert.Equal(t, "s3://uploads/dir/clip.mp4", obj.URI())

	for _, bad := range []string{"", "http://x/y", "s3://bucket", "s3:///key"} {
		_, ok := ParseS3URI(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseTerminalStatus(t *testing.T) {
	for _, raw := range []string{"COMPLETE", "ERROR", "CANCELED"} {
		s, err := ParseTerminalStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, TerminalStatus(raw), s)
	}
	_, err := ParseTerminalStatus("PROGRESSING")
	assert.Error(t, err)
	_, err = ParseTerminalStatus("complete")
	assert.Error(t, err)
}

func TestEventTypeFor(t *testing.T) {
	assert.Equal(t, EventJobCompleted, EventTypeFor(StatusComplete))
	assert.Equal(t, EventJobFailed, EventTypeFor(StatusError))
	assert.Equal(t, EventJobFailed, EventTypeFor(StatusCanceled))
}

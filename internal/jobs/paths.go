package jobs

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"
)

const outputRoot = "processed/"

var supportedExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
	".flv": {},
	".wmv": {},
}

// IsSupported reports whether key names a source the transcoder accepts.
func IsSupported(key string) bool {
	_, ok := supportedExtensions[strings.ToLower(path.Ext(key))]
	return ok
}

// OutputPrefix derives the deterministic output location of a source key.
func OutputPrefix(key string) string {
	ext := path.Ext(key)
	if ext == "." {
		ext = ""
	}
	return outputRoot + strings.TrimSuffix(key, ext) + "/"
}

// DefaultOutputPrefix is listed when a job carries no usable context.
func DefaultOutputPrefix() string {
	return outputRoot
}

// IdempotencyToken is a pure function of container, key and the second at
// which the submission happens. The token keeps only the first 24 bytes of
// "container/key/unix-seconds", so the trailing timestamp digits are cut off
// and a long enough container plus key yields one token per object.
func IdempotencyToken(container, key string, at time.Time) string {
	source := fmt.Sprintf("%s/%s/%d", container, key, at.Unix())
	token := base64.StdEncoding.EncodeToString([]byte(source))
	if len(token) > 32 {
		token = token[:32]
	}
	return token
}

// ParseS3URI splits an s3://container/key locator.
func ParseS3URI(uri string) (SourceObject, bool) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return SourceObject{}, false
	}
	container, key, ok := strings.Cut(rest, "/")
	if !ok || container == "" || key == "" {
		return SourceObject{}, false
	}
	return SourceObject{Container: container, Key: key}, true
}

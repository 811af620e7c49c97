package manifest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/vango-dev/routedefs/internal/errors"
)

// S3API is the subset of *s3.Client used by S3Loader.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Loader reads manifests stored as objects under bucket/prefix.
// The object ETag is the version token. Objects served without an ETag are
// versioned by content hash, which costs a GET per Version call.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	loader := manifest.NewS3Loader(s3.NewFromConfig(cfg), "my-builds", "release-42/server/")
type S3Loader struct {
	client S3API
	bucket string
	prefix string

	mu    sync.Mutex
	cache map[string]*Manifest
}

// NewS3Loader creates a loader for objects under bucket/prefix.
func NewS3Loader(client S3API, bucket, prefix string) *S3Loader {
	return &S3Loader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		cache:  make(map[string]*Manifest),
	}
}

// ObjectKey returns the object key for a manifest key.
func (l *S3Loader) ObjectKey(key string) string {
	return path.Join(l.prefix, key)
}

// Version implements Loader.
func (l *S3Loader) Version(ctx context.Context, key string) (Version, error) {
	out, err := l.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.ObjectKey(key)),
	})
	if err != nil {
		return "", l.objectError(key, err)
	}
	if v := etagVersion(out.ETag); v != "" {
		return v, nil
	}

	// Same version Load stamps on the manifest.
	m, err := l.Load(ctx, key)
	if err != nil {
		return "", err
	}
	return m.Version(), nil
}

// Load implements Loader.
func (l *S3Loader) Load(ctx context.Context, key string) (*Manifest, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.ObjectKey(key)),
	})
	if err != nil {
		return nil, l.objectError(key, err)
	}
	defer out.Body.Close()

	v := etagVersion(out.ETag)

	l.mu.Lock()
	if cached, ok := l.cache[key]; ok && v != "" && cached.Version() == v {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", l.bucket, l.ObjectKey(key), err)
	}
	if v == "" {
		v = HashVersion(data)
	}

	m, err := ParseVersion(data, v)
	if err != nil {
		if re, ok := err.(*errors.RouteError); ok {
			re.WithSource(key, "")
		}
		return nil, err
	}

	l.mu.Lock()
	l.cache[key] = m
	l.mu.Unlock()

	return m, nil
}

// Purge drops every cached manifest.
func (l *S3Loader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Manifest)
}

func (l *S3Loader) objectError(key string, err error) error {
	if isS3NotFound(err) {
		return errors.New("R001").
			WithSource(key, "").
			WithDetailf("no object s3://%s/%s", l.bucket, l.ObjectKey(key)).
			Wrap(err)
	}
	return fmt.Errorf("fetching s3://%s/%s: %w", l.bucket, l.ObjectKey(key), err)
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if stderrors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if stderrors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

func etagVersion(etag *string) Version {
	if etag == nil {
		return ""
	}
	return Version(strings.Trim(*etag, `"`))
}

package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/lzctl/internal/rollout"
)

const (
	keyPrefix   = "lzctl-"
	keySuffix   = ".json"
	keyLayout   = "20060102T150405Z"
	contentType = "application/json"
)

// ObjectStore is the subset of S3 used for reports.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// ErrBucketNotFound is returned by Check when the report bucket is missing.
var ErrBucketNotFound = errors.New("report bucket not found")

// Document is the stored form of a run.
type Document struct {
	Command string           `json:"command"`
	Version string           `json:"version"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Summary *rollout.Summary `json:"summary"`
}

// NewDocument describes the outcome of a command run.
func NewDocument(command, version string, summary *rollout.Summary, runErr error) *Document {
	doc := &Document{
		Command: command,
		Version: version,
		Success: runErr == nil,
		Summary: summary,
	}
	if runErr != nil {
		doc.Error = runErr.Error()
	}
	return doc
}

// Store reads and writes reports under a key prefix in one bucket.
type Store struct {
	objects ObjectStore
	bucket  string
	prefix  string
	log     logr.Logger
}

// NewStore creates a Store.
func NewStore(objects ObjectStore, bucket, prefix string, log logr.Logger) *Store {
	return &Store{
		objects: objects,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		log:     log,
	}
}

// Key returns the object key for a run that started at t.
func (s *Store) Key(t time.Time) string {
	return path.Join(s.prefix, keyPrefix+t.UTC().Format(keyLayout)+keySuffix)
}

// Check verifies that the report bucket exists and is reachable.
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.objects.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, s.bucket)
	}
	return nil
}

// Upload writes doc and returns its key.
func (s *Store) Upload(ctx context.Context, doc *Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	startedAt := time.Now()
	if doc.Summary != nil && !doc.Summary.StartedAt.IsZero() {
		startedAt = doc.Summary.StartedAt
	}
	key := s.Key(startedAt)

	if err := s.objects.PutObject(ctx, s.bucket, key, contentType, data); err != nil {
		return "", err
	}
	s.log.Info("Run report uploaded", "bucket", s.bucket, "key", key)
	return key, nil
}

// List returns the keys of stored reports, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	prefix := keyPrefix
	if s.prefix != "" {
		prefix = s.prefix + "/" + keyPrefix
	}

	keys, err := s.objects.ListObjects(ctx, s.bucket, prefix)
	if err != nil {
		return nil, err
	}

	reports := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasSuffix(k, keySuffix) {
			reports = append(reports, k)
		}
	}
	// Timestamps in keys sort lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(reports)))
	return reports, nil
}

// Get downloads and decodes the report at key.
func (s *Store) Get(ctx context.Context, key string) (*Document, error) {
	data, err := s.objects.GetObject(ctx, s.bucket, key)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("report %s is not valid JSON: %w", key, err)
	}
	return &doc, nil
}

// Latest returns the newest stored report, or nil when there is none.
func (s *Store) Latest(ctx context.Context) (*Document, string, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(keys) == 0 {
		return nil, "", nil
	}
	doc, err := s.Get(ctx, keys[0])
	if err != nil {
		return nil, "", err
	}
	return doc, keys[0], nil
}

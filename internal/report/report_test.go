package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/rollout"
)

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error {
	args := m.Called(ctx, bucket, key, contentType, data)
	return args.Error(0)
}

func (m *mockObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockObjectStore) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockObjectStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func sampleSummary() *rollout.Summary {
	started := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	return &rollout.Summary{
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Minute),
		Discovered: 3,
		Targeted:   2,
		Units: []rollout.UnitResult{
			{ID: "ou-b", Name: "B", OperationID: "op-1", Status: operation.StatusSucceeded, Outcome: rollout.OutcomeSucceeded},
			{ID: "ou-c", Name: "C", Outcome: rollout.OutcomeSkipped, Message: "OU skipped"},
		},
	}
}

func TestStore_Key(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "runs/lzctl-20260102T020405Z.json", NewStore(nil, "b", "/runs/", logr.Discard()).Key(ts))
	assert.Equal(t, "lzctl-20260102T020405Z.json", NewStore(nil, "b", "", logr.Discard()).Key(ts))
}

func TestStore_Upload(t *testing.T) {
	store := &mockObjectStore{}
	s := NewStore(store, "lz-reports", "lzctl/runs", logr.Discard())

	var uploaded []byte
	store.On("PutObject", mock.Anything, "lz-reports", "lzctl/runs/lzctl-20261018T093000Z.json", "application/json", mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.Get(4).([]byte) }).
		Return(nil)

	key, err := s.Upload(context.Background(), NewDocument("apply", "v1.0.0", sampleSummary(), nil))
	require.NoError(t, err)
	assert.Equal(t, "lzctl/runs/lzctl-20261018T093000Z.json", key)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, "apply", doc["command"])
	assert.Equal(t, true, doc["success"])
	assert.NotContains(t, doc, "error")
	store.AssertExpectations(t)
}

func TestStore_UploadError(t *testing.T) {
	store := &mockObjectStore{}
	store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("access denied"))

	_, err := NewStore(store, "b", "", logr.Discard()).Upload(context.Background(), NewDocument("apply", "dev", sampleSummary(), nil))
	assert.EqualError(t, err, "access denied")
}

func TestNewDocument_Failure(t *testing.T) {
	doc := NewDocument("regions", "dev", &rollout.Summary{}, errors.New("no landing zones found"))
	assert.False(t, doc.Success)
	assert.Equal(t, "no landing zones found", doc.Error)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := &mockObjectStore{}
	store.On("ListObjects", mock.Anything, "b", "runs/lzctl-").Return([]string{
		"runs/lzctl-20261001T000000Z.json",
		"runs/lzctl-20261018T093000Z.json",
		"runs/lzctl-notes.txt",
		"runs/lzctl-20260901T120000Z.json",
	}, nil)

	keys, err := NewStore(store, "b", "runs", logr.Discard()).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"runs/lzctl-20261018T093000Z.json",
		"runs/lzctl-20261001T000000Z.json",
		"runs/lzctl-20260901T120000Z.json",
	}, keys)
}

func TestStore_Latest(t *testing.T) {
	summary := sampleSummary()
	data, err := json.Marshal(NewDocument("apply", "v1.0.0", summary, nil))
	require.NoError(t, err)

	store := &mockObjectStore{}
	store.On("ListObjects", mock.Anything, "b", "lzctl-").Return([]string{
		"lzctl-20261001T000000Z.json",
		"lzctl-20261018T093000Z.json",
	}, nil)
	store.On("GetObject", mock.Anything, "b", "lzctl-20261018T093000Z.json").Return(data, nil)

	doc, key, err := NewStore(store, "b", "", logr.Discard()).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lzctl-20261018T093000Z.json", key)
	require.NotNil(t, doc.Summary)
	assert.Len(t, doc.Summary.Units, 2)
	assert.Equal(t, rollout.OutcomeSkipped, doc.Summary.Units[1].Outcome)
	assert.True(t, doc.Summary.StartedAt.Equal(summary.StartedAt))
}

func TestStore_LatestEmpty(t *testing.T) {
	store := &mockObjectStore{}
	store.On("ListObjects", mock.Anything, "b", "lzctl-").Return([]string{}, nil)

	doc, key, err := NewStore(store, "b", "", logr.Discard()).Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, key)
}

func TestStore_GetInvalidJSON(t *testing.T) {
	store := &mockObjectStore{}
	store.On("GetObject", mock.Anything, "b", "k.json").Return([]byte("not json"), nil)

	_, err := NewStore(store, "b", "", logr.Discard()).Get(context.Background(), "k.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report k.json is not valid JSON")
}

func TestStore_Check(t *testing.T) {
	store := &mockObjectStore{}
	store.On("BucketExists", mock.Anything, "present").Return(true, nil)
	store.On("BucketExists", mock.Anything, "missing").Return(false, nil)
	store.On("BucketExists", mock.Anything, "denied").Return(false, errors.New("AccessDenied"))

	require.NoError(t, NewStore(store, "present", "", logr.Discard()).Check(context.Background()))

	err := NewStore(store, "missing", "", logr.Discard()).Check(context.Background())
	assert.ErrorIs(t, err, ErrBucketNotFound)
	assert.Contains(t, err.Error(), "missing")

	err = NewStore(store, "denied", "", logr.Discard()).Check(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBucketNotFound)
}

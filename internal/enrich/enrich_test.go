package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/geo"
	"github.com/redson/jobradar/internal/jobs"
)

// MockStore is a mock implementation of the jobs.EnrichableStore interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveAll(ctx context.Context, records []jobs.Record) (jobs.SaveReport, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(jobs.SaveReport), args.Error(1)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

func (m *MockStore) ListUnenriched(ctx context.Context) ([]jobs.StoredRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]jobs.StoredRecord), args.Error(1)
}

func (m *MockStore) UpdateGeo(ctx context.Context, key, country, continent string) error {
	return m.Called(ctx, key, country, continent).Error(0)
}

func (m *MockStore) DeleteByTitlePatterns(ctx context.Context, patterns []string) (int64, error) {
	args := m.Called(ctx, patterns)
	return args.Get(0).(int64), args.Error(1)
}

func stored(key, location string) jobs.StoredRecord {
	return jobs.StoredRecord{Key: key, Record: jobs.Record{URL: key, Location: location}}
}

func TestRunEnrichesResolvableRecords(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("ListUnenriched", mock.Anything).Return([]jobs.StoredRecord{
		stored("https://x.com/job/1", "Austin, TX"),
		stored("https://x.com/job/2", "Remote"),
		stored("https://x.com/job/3", ""),
		stored("https://x.com/job/4", "Greater Paris Metropolitan Region"),
	}, nil)
	store.On("UpdateGeo", mock.Anything, "https://x.com/job/1", "United States", "North America").Return(nil)
	store.On("UpdateGeo", mock.Anything, "https://x.com/job/4", "France", "Europe").Return(nil)

	report, err := New(store, geo.NewResolver(zap.NewNop()), zap.NewNop()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.Enriched)
	assert.Equal(t, 1, report.Failed, "ambiguous location counts as failed resolution")
	assert.Equal(t, 1, report.Skipped, "missing location is skipped")
	store.AssertExpectations(t)
}

func TestRunCountsUpdateFailures(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("ListUnenriched", mock.Anything).Return([]jobs.StoredRecord{
		stored("https://x.com/job/1", "Berlin, Germany"),
	}, nil)
	store.On("UpdateGeo", mock.Anything, "https://x.com/job/1", "Germany", "Europe").
		Return(errors.New("connection reset"))

	report, err := New(store, geo.NewResolver(zap.NewNop()), zap.NewNop()).Run(context.Background())
	require.NoError(t, err, "individual update failures never abort the pass")
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Enriched)
}

func TestRunPropagatesListFailure(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("ListUnenriched", mock.Anything).Return(nil, errors.New("db unreachable"))

	_, err := New(store, geo.NewResolver(zap.NewNop()), zap.NewNop()).Run(context.Background())
	assert.Error(t, err)
}

func TestRunIsIdempotentWhenNothingToDo(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("ListUnenriched", mock.Anything).Return([]jobs.StoredRecord{}, nil)

	report, err := New(store, geo.NewResolver(zap.NewNop()), zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Enriched)
	assert.Zero(t, report.Failed)
}

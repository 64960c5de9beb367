package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/config"
	"github.com/redson/jobradar/internal/jobs"
)

// MockStore mocks the jobs.EnrichableStore interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveAll(ctx context.Context, records []jobs.Record) (jobs.SaveReport, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(jobs.SaveReport), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) ListUnenriched(ctx context.Context) ([]jobs.StoredRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]jobs.StoredRecord)
	return records, args.Error(1)
}

func (m *MockStore) UpdateGeo(ctx context.Context, key, country, continent string) error {
	args := m.Called(ctx, key, country, continent)
	return args.Error(0)
}

func (m *MockStore) DeleteByTitlePatterns(ctx context.Context, patterns []string) (int64, error) {
	args := m.Called(ctx, patterns)
	return args.Get(0).(int64), args.Error(1)
}

// fakeApp satisfies the App interface with canned services.
type fakeApp struct {
	cfg   config.Config
	store *MockStore
}

func (f *fakeApp) Close()                {}
func (f *fakeApp) Config() config.Config { return f.cfg }
func (f *fakeApp) Logger() *zap.Logger   { return zap.NewNop() }
func (f *fakeApp) Store() jobs.Store     { return f.store }
func (f *fakeApp) EnrichableStore() (jobs.EnrichableStore, error) {
	return f.store, nil
}

// withFakeApp swaps the application factory for the test's lifetime.
func withFakeApp(t *testing.T, a App) {
	t.Helper()
	original := newApp
	newApp = func(_ context.Context, _ config.Config) (App, error) {
		return a, nil
	}
	t.Cleanup(func() { newApp = original })
}

func executeCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCleanCommandDeletesMatches(t *testing.T) {
	store := &MockStore{}
	store.On("DeleteByTitlePatterns", mock.Anything, []string{"senior", "principal"}).
		Return(int64(4), nil)

	withFakeApp(t, &fakeApp{
		cfg: config.Config{
			Cleanup: config.CleanupConfig{TitlePatterns: []string{"senior", "principal"}},
		},
		store: store,
	})

	out := executeCommand(t, "clean")

	assert.Contains(t, out, "deleted 4 postings")
	store.AssertExpectations(t)
}

func TestCleanCommandNoPatternsIsNoOp(t *testing.T) {
	store := &MockStore{}

	withFakeApp(t, &fakeApp{store: store})

	out := executeCommand(t, "clean")

	assert.Contains(t, out, "deleted 0 postings")
	store.AssertNotCalled(t, "DeleteByTitlePatterns", mock.Anything, mock.Anything)
}

func TestEnrichCommandEmptyStore(t *testing.T) {
	store := &MockStore{}
	store.On("ListUnenriched", mock.Anything).Return([]jobs.StoredRecord{}, nil)

	withFakeApp(t, &fakeApp{store: store})

	out := executeCommand(t, "enrich")

	assert.Contains(t, out, "enriched 0 postings")
	store.AssertExpectations(t)
}

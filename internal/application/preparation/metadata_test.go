package preparation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

type fakeFetcher struct {
	page  string
	ok    bool
	calls int
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ structure.ID) (string, bool) {
	f.calls++
	return f.page, f.ok
}

// memoryCache implements MetadataCache over a map, JSON round-tripping
// values the way the Redis cache does.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, dest any, load func(context.Context) (any, error)) error {
	if data, ok := c.entries[key]; ok {
		return json.Unmarshal(data, dest)
	}
	value, err := load(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return json.Unmarshal(data, dest)
}

const metadataPage = `<html><body>
<li id="exp_header_0_method"><strong>Method:</strong> X-RAY DIFFRACTION</li>
<li id="header_mutation"><strong>Mutation(s):</strong> No</li>
</body></html>`

func TestMetadataFetch_InvalidIDFailsBeforeFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewMetadataService(fetcher, nil, nil, logging.NewNopLogger())

	_, _, err := svc.Fetch(context.Background(), "bad!")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePDBInvalidID))
	assert.Equal(t, 0, fetcher.calls)
}

func TestMetadataFetch_AbsentPage(t *testing.T) {
	fetcher := &fakeFetcher{ok: false}
	svc := NewMetadataService(fetcher, nil, nil, logging.NewNopLogger())

	meta, ok, err := svc.Fetch(context.Background(), "6LU7")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, meta)
}

func TestMetadataFetch_ParsesPage(t *testing.T) {
	fetcher := &fakeFetcher{page: metadataPage, ok: true}
	svc := NewMetadataService(fetcher, nil, nil, logging.NewNopLogger())

	meta, ok, err := svc.Fetch(context.Background(), "6lu7")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, meta.Experiment.Method)
	assert.Equal(t, "X-RAY DIFFRACTION", *meta.Experiment.Method)
	require.NotNil(t, meta.Molecule.Mutation)
	assert.False(t, *meta.Molecule.Mutation)
}

func TestMetadataFetch_CachesSuccessfulFetch(t *testing.T) {
	fetcher := &fakeFetcher{page: metadataPage, ok: true}
	cache := newMemoryCache()
	svc := NewMetadataService(fetcher, cache, nil, logging.NewNopLogger())

	_, ok, err := svc.Fetch(context.Background(), "6LU7")
	require.NoError(t, err)
	require.True(t, ok)

	meta, ok, err := svc.Fetch(context.Background(), "6LU7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, fetcher.calls)
	require.NotNil(t, meta.Experiment.Method)
	assert.Equal(t, "X-RAY DIFFRACTION", *meta.Experiment.Method)
}

func TestMetadataFetch_AbsentPageIsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{ok: false}
	cache := newMemoryCache()
	svc := NewMetadataService(fetcher, cache, nil, logging.NewNopLogger())

	_, ok, err := svc.Fetch(context.Background(), "6LU7")
	require.NoError(t, err)
	assert.False(t, ok)

	// The page comes back; the earlier miss must not have been cached.
	fetcher.page = metadataPage
	fetcher.ok = true

	_, ok, err = svc.Fetch(context.Background(), "6LU7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, fetcher.calls)
}

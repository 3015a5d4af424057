package filedb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), AllCollections()...)
	require.NoError(t, err)
	return s
}

func TestNew_InitializesEmptyCollections(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir, AllCollections()...)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	for _, c := range AllCollections() {
		data, err := os.ReadFile(filepath.Join(dir, string(c)+".json"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))

		records, err := s.Read(context.Background(), c)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestNew_KeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(`[{"id":"u1","name":"Asha"}]`), 0o644))

	s, err := New(dir, Users)
	require.NoError(t, err)

	records, err := s.Read(context.Background(), Users)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Asha", records[0]["name"])
}

func TestWriteRead_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	written := []Record{
		{"id": "t1", "name": "Notion", "bestFor": []any{"JEE", "NEET"}, "rating": 4.5, "reviewCount": float64(120)},
		{"id": "t2", "name": "Forest", "bestFor": []any{"NEET"}, "rating": 4.6, "logo": nil, "free": true},
	}
	require.NoError(t, s.Write(ctx, Tools, written))

	got, err := s.Read(ctx, Tools)
	require.NoError(t, err)
	assert.Equal(t, written, got)
}

func TestWriteRead_NumbersComeBackAsFloat64(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, Tools, []Record{{"id": "t1", "reviewCount": 120}}))

	got, err := s.Read(ctx, Tools)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, float64(120), got[0]["reviewCount"])
	assert.NotEqual(t, []Record{{"id": "t1", "reviewCount": 120}}, got)
}

func TestWrite_NilBecomesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(context.Background(), Tools, nil))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "tools.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(context.Background(), Users, []Record{{"id": "1"}}))

	matches, err := filepath.Glob(filepath.Join(s.Dir(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRead_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "forum-posts.json"), []byte(`[{"id":`), 0o644))

	records, err := s.Read(context.Background(), ForumPosts)
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestUnknownCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Read(ctx, Collection("orders"))
	assert.ErrorIs(t, err, ErrUnknownCollection)

	err = s.Write(ctx, Collection("orders"), nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Read(ctx, Users)
	assert.ErrorIs(t, err, context.Canceled)

	err = s.Update(ctx, Users, func(r []Record) ([]Record, error) { return r, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdate_ErrorKeepsFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, Users, []Record{{"id": "u1"}}))

	errBoom := errors.New("boom")
	err := s.Update(ctx, Users, func(records []Record) ([]Record, error) {
		return append(records, Record{"id": "u2"}), errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	records, err := s.Read(ctx, Users)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// Параллельные Update в одну коллекцию сериализуются: ни одна запись не теряется.
func TestUpdate_ConcurrentAppendsAreSerialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 40
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := range writers {
		go func() {
			defer wg.Done()
			err := s.Update(ctx, ForumPosts, func(records []Record) ([]Record, error) {
				return append(records, Record{"id": fmt.Sprintf("p%d", i)}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := s.Read(ctx, ForumPosts)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

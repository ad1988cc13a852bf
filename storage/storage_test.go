package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"content-archives/models"
	"content-archives/tests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = tests.SetupTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up test DB: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newRepo(t *testing.T, records ...models.ContentRecord) *ContentRepository {
	t.Helper()
	require.NoError(t, tests.ClearContentRecords(testDB))
	t.Cleanup(func() { require.NoError(t, tests.ClearContentRecords(testDB)) })
	require.NoError(t, tests.InsertRecords(testDB, records...))
	return NewContentRepository(testDB, tests.ContentTypes())
}

func TestContentType(t *testing.T) {
	repo := NewContentRepository(testDB, tests.ContentTypes())

	t.Run("By slug", func(t *testing.T) {
		ct, err := repo.ContentType("entries")
		require.NoError(t, err)
		assert.Equal(t, "Entries", ct.Name)
	})

	t.Run("By singular name", func(t *testing.T) {
		ct, err := repo.ContentType("page")
		require.NoError(t, err)
		assert.Equal(t, "pages", ct.Slug)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := repo.ContentType("showcases")
		require.ErrorIs(t, err, ErrUnknownContentType)
		assert.Contains(t, err.Error(), "showcases")
	})
}

func TestResolveColumn(t *testing.T) {
	repo := NewContentRepository(testDB, nil)

	column, err := repo.ResolveColumn("datepublish")
	require.NoError(t, err)
	assert.Equal(t, "date_publish", column)

	column, err = repo.ResolveColumn("DateChanged")
	require.NoError(t, err)
	assert.Equal(t, "date_changed", column)

	for _, name := range []string{"title", "date_publish", "datepublish; --", ""} {
		_, err := repo.ResolveColumn(name)
		assert.ErrorIs(t, err, ErrUnknownColumn, "column %q should be rejected", name)
	}
}

func TestDateValues(t *testing.T) {
	other := tests.Record("pages", "about", "2001-01-01 00:00:00")
	changed := tests.Record("entries", "changed", "2018-01-05 10:00:00")
	changed.DateChanged = "2020-02-02 00:00:00"
	repo := newRepo(t,
		changed,
		tests.Record("entries", "b", "2019-07-01 00:00:00"),
		tests.Record("entries", "undated", "0000-00-00 00:00:00"),
		other,
	)
	entries, err := repo.ContentType("entries")
	require.NoError(t, err)

	values, err := repo.DateValues(context.Background(), entries, "datepublish")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2018-01-05 10:00:00", "2019-07-01 00:00:00", "0000-00-00 00:00:00"}, values)

	values, err = repo.DateValues(context.Background(), entries, "datechanged")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2020-02-02 00:00:00", "", ""}, values)

	_, err = repo.DateValues(context.Background(), entries, "title")
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestIDsWithPrefix(t *testing.T) {
	records := []models.ContentRecord{
		tests.Record("entries", "jan", "2018-01-05 00:00:00"),
		tests.Record("entries", "mar", "2018-03-15 00:00:00"),
		tests.Record("entries", "next", "2019-03-01 00:00:00"),
		tests.Record("pages", "page", "2018-03-15 00:00:00"),
	}
	repo := newRepo(t, records...)
	entries, err := repo.ContentType("entries")
	require.NoError(t, err)

	t.Run("Year prefix matches every month", func(t *testing.T) {
		ids, err := repo.IDsWithPrefix(context.Background(), entries, "datepublish", "2018")
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("Month prefix", func(t *testing.T) {
		ids, err := repo.IDsWithPrefix(context.Background(), entries, "datepublish", "2018-03")
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})

	t.Run("No match", func(t *testing.T) {
		ids, err := repo.IDsWithPrefix(context.Background(), entries, "datepublish", "1999")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestFetchPublished(t *testing.T) {
	draft := tests.Record("entries", "draft", "2018-06-01 00:00:00")
	draft.Status = "draft"
	repo := newRepo(t,
		tests.Record("entries", "older", "2018-01-05 00:00:00"),
		tests.Record("entries", "newer", "2018-03-15 00:00:00"),
		draft,
		tests.Record("pages", "b-page", "2018-01-01 00:00:00"),
		tests.Record("pages", "a-page", "2018-02-01 00:00:00"),
	)
	ctx := context.Background()

	t.Run("Sorted newest first and drafts skipped", func(t *testing.T) {
		entries, err := repo.ContentType("entries")
		require.NoError(t, err)
		ids, err := repo.IDsWithPrefix(ctx, entries, "datepublish", "2018")
		require.NoError(t, err)
		require.Len(t, ids, 3)

		records, err := repo.FetchPublished(ctx, entries, ids)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "newer", records[0].Slug)
		assert.Equal(t, "older", records[1].Slug)
	})

	t.Run("Sorted by title ascending", func(t *testing.T) {
		pages, err := repo.ContentType("pages")
		require.NoError(t, err)
		ids, err := repo.IDsWithPrefix(ctx, pages, "datepublish", "2018")
		require.NoError(t, err)

		records, err := repo.FetchPublished(ctx, pages, ids)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "a-page", records[0].Slug)
		assert.Equal(t, "b-page", records[1].Slug)
	})

	t.Run("No ids gives an empty, non-nil slice", func(t *testing.T) {
		entries, err := repo.ContentType("entries")
		require.NoError(t, err)
		records, err := repo.FetchPublished(ctx, entries, nil)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestCreate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	record := models.ContentRecord{ContentType: "entries", Slug: "hello", DatePublish: "2020-05-05 12:00:00"}
	require.NoError(t, repo.Create(ctx, &record))
	assert.NotZero(t, record.ID)
	assert.Len(t, record.UUID, 36, "a UUID should be assigned")
	assert.Equal(t, models.StatusPublished, record.Status)

	var stored models.ContentRecord
	require.NoError(t, testDB.First(&stored, record.ID).Error)
	assert.Equal(t, record.UUID, stored.UUID)

	err := repo.Create(ctx, &models.ContentRecord{ContentType: "showcases", Slug: "nope"})
	require.ErrorIs(t, err, ErrUnknownContentType)
}

func TestLoadFixtures(t *testing.T) {
	repo := newRepo(t)
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
- contenttype: entries
  slug: first
  title: First
  datepublish: "2018-01-05 00:00:00"
- contenttype: entries
  slug: second
  title: Second
  status: draft
  datepublish: "2019-07-01 00:00:00"
`), 0644))

	n, err := repo.LoadFixtures(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var drafts int64
	testDB.Model(&models.ContentRecord{}).Where("status = ?", "draft").Count(&drafts)
	assert.Equal(t, int64(1), drafts)

	_, err = repo.LoadFixtures(context.Background(), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixtures")
}

func TestSortClause(t *testing.T) {
	c := sortClause("-datepublish")
	assert.Equal(t, "date_publish", c.Column.Name)
	assert.True(t, c.Desc)

	c = sortClause("title")
	assert.Equal(t, "title", c.Column.Name)
	assert.False(t, c.Desc)

	c = sortClause("body; DROP TABLE x")
	assert.Equal(t, "date_publish", c.Column.Name, "unknown sort columns fall back")
	assert.True(t, c.Desc)
}

package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/killallgit/transcript-search/internal/models"
	"github.com/killallgit/transcript-search/internal/services/search"
	apperrors "github.com/killallgit/transcript-search/pkg/errors"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func testProcessor() *transcript.Processor {
	n := 0
	extractor := transcript.NewExtractor(transcript.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("ep-%d", n)
	}))
	return transcript.NewProcessor(extractor, nil)
}

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, Repository) {
	repo := NewRepository(setupTestDB(t))
	opts = append([]ServiceOption{WithProcessor(testProcessor())}, opts...)
	return NewService(repo, search.NewEngine(nil), opts...), repo
}

func jsonFile(name, title string, texts ...string) transcript.File {
	body := fmt.Sprintf(`{"title":%q,"transcript":[`, title)
	for i, text := range texts {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"text":%q,"timestamp":%d}`, text, i*10)
	}
	body += "]}"
	return transcript.FileFromBytes(name, []byte(body), "application/json")
}

func TestServiceImport(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	result, err := svc.Import(ctx, []transcript.File{
		jsonFile("a.json", "Alpha", "The quick brown fox", "jumps over"),
		transcript.FileFromBytes("library.sqlite", []byte("SQLite format 3"), "application/octet-stream"),
		jsonFile("b.json", "Beta", "A quick fox jumps"),
	})
	require.NoError(t, err)

	assert.Len(t, result.Episodes, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "library.sqlite")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	results := svc.Search("quick", search.Options{})
	require.Len(t, results, 2)
	assert.Equal(t, "ep-1", results[0].EpisodeID)
	assert.Equal(t, "ep-2", results[1].EpisodeID)
}

func TestServiceImportAppendsToCorpus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []transcript.File{jsonFile("a.json", "First", "hello")})
	require.NoError(t, err)
	_, err = svc.Import(ctx, []transcript.File{jsonFile("b.json", "Second", "hello again")})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	assert.Equal(t, "Second", list[1].Title)
	assert.Equal(t, 1, list[0].SegmentCount)
	assert.Equal(t, 2, svc.Engine().Len())
}

func TestServiceRoundTripPreservesSegments(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	payload := `{"title":"Full","podcastTitle":"Show","duration":90,"pubDate":"2024-01-02","description":"notes",
		"transcript":[{"text":"one","timestamp":1.5,"speaker":"Ann","confidence":0.9},{"text":"two","timestamp":3}]}`
	_, err := svc.Import(ctx, []transcript.File{transcript.FileFromBytes("full.json", []byte(payload), "application/json")})
	require.NoError(t, err)

	ep, err := repo.Get(ctx, "ep-1")
	require.NoError(t, err)
	assert.Equal(t, "Full", ep.Title)
	assert.Equal(t, "Show", ep.PodcastTitle)
	assert.Equal(t, 90.0, ep.Duration)
	assert.Equal(t, "2024-01-02T00:00:00Z", ep.PublishDate)
	require.NotNil(t, ep.Description)
	assert.Equal(t, "notes", *ep.Description)

	require.Len(t, ep.Transcript, 2)
	first := ep.Transcript[0]
	assert.Equal(t, "seg-0", first.ID)
	assert.Equal(t, 1.5, first.Timestamp)
	require.NotNil(t, first.Speaker)
	assert.Equal(t, "Ann", *first.Speaker)
	require.NotNil(t, first.Confidence)
	assert.Equal(t, 0.9, *first.Confidence)
	assert.Equal(t, "two", ep.Transcript[1].Text)
	assert.Nil(t, ep.Transcript[1].Speaker)
}

func TestServiceGetAndSegment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []transcript.File{jsonFile("a.json", "Alpha", "first", "second")})
	require.NoError(t, err)

	ep, err := svc.Get(ctx, "ep-1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", ep.Title)

	seg, err := svc.Segment(ctx, "ep-1", "seg-1")
	require.NoError(t, err)
	assert.Equal(t, "second", seg.Text)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
	assert.True(t, IsNotFound(err))

	_, err = svc.Segment(ctx, "ep-1", "seg-9")
	assert.ErrorIs(t, err, ErrSegmentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestServiceDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []transcript.File{
		jsonFile("a.json", "Alpha", "searchable words"),
		jsonFile("b.json", "Beta", "other words"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ep-1"))

	_, err = svc.Get(ctx, "ep-1")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
	assert.Empty(t, svc.Search("searchable", search.Options{}))
	assert.Len(t, svc.Search("words", search.Options{}), 1)

	var segments int64
	require.NoError(t, repo.(*repository).db.Model(&models.Segment{}).Count(&segments).Error)
	assert.Equal(t, int64(1), segments)

	err = svc.Delete(ctx, "ep-1")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
}

func TestServiceLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	require.NoError(t, repo.SaveAll(context.Background(), []transcript.Episode{{
		ID:         "stored",
		Title:      "Stored",
		Transcript: []transcript.Segment{{ID: "seg-0", Text: "persisted text"}},
	}}))

	svc := NewService(repo, nil)
	require.NoError(t, svc.Load(context.Background()))

	assert.Len(t, svc.Search("persisted", search.Options{}), 1)
}

func TestServiceImportLocked(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "corpus.lock")

	holder := flock.New(lockPath)
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	svc, _ := newTestService(t, WithLockFile(lockPath), WithLockTimeout(200*time.Millisecond))

	_, err = svc.Import(context.Background(), []transcript.File{jsonFile("a.json", "Alpha", "x")})
	assert.ErrorIs(t, err, ErrImportLocked)

	require.NoError(t, holder.Unlock())

	result, err := svc.Import(context.Background(), []transcript.File{jsonFile("a.json", "Alpha", "x")})
	require.NoError(t, err)
	assert.Len(t, result.Episodes, 1)
}

func TestNotFoundError(t *testing.T) {
	err := NewEpisodeNotFound("abc")
	assert.Equal(t, "episode with identifier abc not found", err.Error())
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
	assert.NotErrorIs(t, err, ErrSegmentNotFound)

	err = fmt.Errorf("wrapped: %w", NewSegmentNotFound("abc", "seg-1"))
	assert.ErrorIs(t, err, ErrSegmentNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(ErrImportLocked))
}

func TestRepositoryDatabaseErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	ctx := context.Background()
	_, err = repo.LoadAll(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))

	_, err = repo.Get(ctx, "ep-1")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))
	assert.False(t, IsNotFound(err))

	_, err = repo.Count(ctx)
	assert.Equal(t, apperrors.ErrCodeDatabaseQuery, apperrors.GetCode(err))
}

package tutor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mentorsed/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CourseModel{},
		&models.ChapterModel{},
		&models.MuxDataModel{},
		&models.ChatThreadModel{},
		&models.ChatMessageModel{},
		&models.LessonSummaryModel{},
	))
	return db
}

func TestConversationStoreThreadAndWindows(t *testing.T) {
	db := openTestDB(t)
	store := NewConversationStore(db)
	ctx := context.Background()

	first, err := store.EnsureThread(ctx, "u1", "c1", "ch1")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := store.EnsureThread(ctx, "u1", "c1", "ch1")
	require.NoError(t, err)
	assert.Equal(t, first, second, "same (user, chapter) reuses the thread")

	found, err := store.FindThread(ctx, "u1", "ch1")
	require.NoError(t, err)
	assert.Equal(t, first, found)

	missing, err := store.FindThread(ctx, "u2", "ch1")
	require.NoError(t, err)
	assert.Empty(t, missing)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, first, RoleUser, fmt.Sprintf("msg %d", i)))
		time.Sleep(2 * time.Millisecond)
	}

	history, err := store.History(ctx, first, 50)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "msg 0", history[0].Content)
	assert.Equal(t, "msg 4", history[4].Content)

	recent, err := store.Recent(ctx, first, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "msg 2", recent[0].Content)
	assert.Equal(t, "msg 4", recent[2].Content, "newest last, chronological")
}

func TestConversationStoreStableOrderOnEqualTimestamps(t *testing.T) {
	db := openTestDB(t)
	store := NewConversationStore(db)
	ctx := context.Background()

	threadID, err := store.EnsureThread(ctx, "u1", "c1", "ch1")
	require.NoError(t, err)

	// Concurrent asks can land several rows in the same instant; seed that
	// state directly.
	stamp := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		row := models.ChatMessageModel{ThreadID: threadID, Role: string(RoleUser), Content: fmt.Sprintf("same-instant %d", i)}
		row.CreatedAt = stamp
		require.NoError(t, db.Create(&row).Error)
	}

	firstRead, err := store.History(ctx, threadID, 50)
	require.NoError(t, err)
	secondRead, err := store.History(ctx, threadID, 50)
	require.NoError(t, err)
	assert.Equal(t, firstRead, secondRead, "repeated reads keep one order")

	recent, err := store.Recent(ctx, threadID, 6)
	require.NoError(t, err)
	assert.Equal(t, firstRead, recent, "both windows agree on the tie-broken order")
}

func TestSummaryStoreUpsert(t *testing.T) {
	db := openTestDB(t)
	store := NewSummaryStore(db)
	ctx := context.Background()

	_, _, ok, err := store.Get(ctx, "ch1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "ch1", "first summary", "hash-a"))
	require.NoError(t, store.Put(ctx, "ch1", "second summary", "hash-b"))

	summary, hash, ok, err := store.Get(ctx, "ch1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second summary", summary)
	assert.Equal(t, "hash-b", hash)

	var count int64
	require.NoError(t, db.Model(&models.LessonSummaryModel{}).Where("chapter_id = ?", "ch1").Count(&count).Error)
	assert.EqualValues(t, 1, count, "rewrites stay on one row per chapter")
}

func TestLessonResolver(t *testing.T) {
	db := openTestDB(t)
	resolver := NewLessonResolver(db)
	ctx := context.Background()

	course := models.CourseModel{Title: "Go from Scratch", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	chapter := models.ChapterModel{CourseID: course.ID, Title: "Closures", Description: "desc", IsPublished: true}
	require.NoError(t, db.Create(&chapter).Error)
	require.NoError(t, db.Create(&models.MuxDataModel{ChapterID: chapter.ID, AssetID: "asset-1", PlaybackID: "playback-1"}).Error)

	draft := models.ChapterModel{CourseID: course.ID, Title: "Draft", IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	lesson, err := resolver.Lesson(ctx, course.ID, chapter.ID)
	require.NoError(t, err)
	require.NotNil(t, lesson)
	assert.Equal(t, "Go from Scratch", lesson.CourseTitle)
	assert.Equal(t, "Closures", lesson.ChapterTitle)
	assert.Equal(t, "asset-1", lesson.AssetID)
	assert.Equal(t, "playback-1", lesson.PlaybackID)

	lesson, err = resolver.Lesson(ctx, course.ID, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, lesson, "unpublished chapters are invisible")
}

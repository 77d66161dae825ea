package persistence

import (
	"context"
	"testing"
	"time"

	"clipflow/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestClaimDueReturnsClaimedVideosWithProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	scheduled := now.Add(-10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE videos SET status").
		WithArgs(model.VideoStatusPublishing, now, model.VideoStatusScheduled, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "script", "video_url", "platforms", "status", "scheduled_for", "metadata"}).
			AddRow("video-1", "project-1", "a script", "https://cdn.example.com/v.mp4", []byte("{youtube,tiktok}"), model.VideoStatusPublishing, scheduled, []byte(`{"video_number":3}`)))
	mock.ExpectQuery("SELECT id, user_id, title, theme, description, platform, duration FROM projects").
		WithArgs("project-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "theme", "description", "platform", "duration"}).
			AddRow("project-1", "user-1", "Cooking Hacks", "cooking", "daily tips", "both", 45))
	mock.ExpectCommit()

	repo := NewVideoRepository(db)
	videos, err := repo.ClaimDue(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	require.Equal(t, "video-1", v.ID)
	require.Equal(t, []string{"youtube", "tiktok"}, v.Platforms)
	require.Equal(t, model.VideoStatusPublishing, v.Status)
	require.Equal(t, "user-1", v.Project.UserID)
	require.Equal(t, "cooking", v.Project.Theme)
	require.NotNil(t, v.Metadata)
	require.Equal(t, 3, v.Metadata.VideoNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimDueEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE videos SET status").
		WithArgs(model.VideoStatusPublishing, now, model.VideoStatusScheduled, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "script", "video_url", "platforms", "status", "scheduled_for", "metadata"}))
	mock.ExpectCommit()

	repo := NewVideoRepository(db)
	videos, err := repo.ClaimDue(context.Background(), now, 10)
	require.NoError(t, err)
	require.Empty(t, videos)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReclaimStaleReturnsStuckVideosToScheduled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2026, 8, 28, 9, 45, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE videos SET status").
		WithArgs(model.VideoStatusScheduled, sqlmock.AnyArg(), model.VideoStatusPublishing, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewVideoRepository(db)
	n, err := repo.ReclaimStale(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPublishedGuardsClaimState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	publishedAt := time.Date(2026, 8, 28, 10, 5, 0, 0, time.UTC)
	meta := &model.VideoMetadata{
		PublishResults: []model.PublishOutcome{{Platform: "youtube", Status: model.OutcomeSuccess}},
		Revenue:        map[string]float64{"youtube": 12.34},
		Hashtags:       []string{"#viral", "#shorts"},
	}

	mock.ExpectExec("UPDATE videos").
		WithArgs(model.VideoStatusPublished, publishedAt, sqlmock.AnyArg(), "video-1", model.VideoStatusPublishing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewVideoRepository(db)
	require.NoError(t, repo.MarkPublished(context.Background(), "video-1", publishedAt, meta))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailedStoresMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE videos SET status").
		WithArgs(model.VideoStatusFailed, "no platform connections configured", sqlmock.AnyArg(), "video-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewVideoRepository(db)
	require.NoError(t, repo.MarkFailed(context.Background(), "video-1", "no platform connections configured"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVideoGeneratesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	scheduled := time.Now().Add(time.Hour)
	video := &model.Video{
		ProjectID:    "project-1",
		Script:       "a script",
		Platforms:    []string{"tiktok", "youtube"},
		Status:       model.VideoStatusScheduled,
		ScheduledFor: &scheduled,
		Metadata:     &model.VideoMetadata{VideoNumber: 1, TotalVideos: 10},
	}

	mock.ExpectQuery("INSERT INTO videos").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("generated-id"))

	repo := NewVideoRepository(db)
	require.NoError(t, repo.Create(context.Background(), video))
	require.Equal(t, "generated-id", video.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScript(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE videos SET script").
		WithArgs("new script", sqlmock.AnyArg(), "video-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewVideoRepository(db)
	require.NoError(t, repo.UpdateScript(context.Background(), "video-1", "new script"))
	require.NoError(t, mock.ExpectationsWereMet())
}

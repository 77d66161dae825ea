package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"clipflow/domain/model"

	"github.com/lib/pq"
)

// VideoRepository implements video persistence on PostgreSQL
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository { return &VideoRepository{db: db} }

// ClaimDue moves up to limit due videos from scheduled to publishing and
// returns them with the owning project joined in. FOR UPDATE SKIP LOCKED keeps
// overlapping runs from claiming the same rows.
func (r *VideoRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*model.Video, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := `UPDATE videos SET status=$1, updated_at=$2
	      WHERE id IN (
	        SELECT id FROM videos
	        WHERE status=$3 AND scheduled_for <= $2
	        ORDER BY scheduled_for ASC
	        LIMIT $4
	        FOR UPDATE SKIP LOCKED
	      )
	      RETURNING id, project_id, script, video_url, platforms, status, scheduled_for, metadata`
	rows, err := tx.QueryContext(ctx, q, model.VideoStatusPublishing, now.UTC(), model.VideoStatusScheduled, limit)
	if err != nil {
		return nil, err
	}
	var videos []*model.Video
	for rows.Next() {
		v := &model.Video{}
		var videoURL sql.NullString
		var scheduledFor sql.NullTime
		var metadata []byte
		if err = rows.Scan(&v.ID, &v.ProjectID, &v.Script, &videoURL, pq.Array(&v.Platforms), &v.Status, &scheduledFor, &metadata); err != nil {
			rows.Close()
			return nil, err
		}
		if videoURL.Valid {
			v.VideoURL = videoURL.String
		}
		if scheduledFor.Valid {
			t := scheduledFor.Time
			v.ScheduledFor = &t
		}
		if len(metadata) > 0 {
			meta := &model.VideoMetadata{}
			if jsonErr := json.Unmarshal(metadata, meta); jsonErr == nil {
				v.Metadata = meta
			}
		}
		videos = append(videos, v)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, v := range videos {
		row := tx.QueryRowContext(ctx, `SELECT id, user_id, title, theme, description, platform, duration FROM projects WHERE id=$1`, v.ProjectID)
		var desc sql.NullString
		var duration sql.NullInt64
		if err = row.Scan(&v.Project.ID, &v.Project.UserID, &v.Project.Title, &v.Project.Theme, &desc, &v.Project.Platform, &duration); err != nil {
			return nil, err
		}
		if desc.Valid {
			v.Project.Description = desc.String
		}
		if duration.Valid {
			v.Project.Duration = int(duration.Int64)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return videos, nil
}

// MarkPublished finishes a claimed video. The jsonb concatenation keeps
// metadata keys this writer does not own.
func (r *VideoRepository) MarkPublished(ctx context.Context, videoID string, publishedAt time.Time, meta *model.VideoMetadata) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	q := `UPDATE videos
	      SET status=$1, published_at=$2, metadata = COALESCE(metadata, '{}'::jsonb) || $3::jsonb, error_message=NULL, updated_at=$2
	      WHERE id=$4 AND status=$5`
	_, err = r.db.ExecContext(ctx, q, model.VideoStatusPublished, publishedAt.UTC(), payload, videoID, model.VideoStatusPublishing)
	return err
}

// ReclaimStale moves publishing claims older than the cutoff back to
// scheduled. A run that died mid-claim leaves rows behind; the next run picks
// them up again through this path.
func (r *VideoRepository) ReclaimStale(ctx context.Context, before time.Time) (int64, error) {
	q := `UPDATE videos SET status=$1, updated_at=$2 WHERE status=$3 AND updated_at <= $4`
	res, err := r.db.ExecContext(ctx, q, model.VideoStatusScheduled, time.Now().UTC(), model.VideoStatusPublishing, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *VideoRepository) MarkFailed(ctx context.Context, videoID string, errorMessage string) error {
	q := `UPDATE videos SET status=$1, error_message=$2, updated_at=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, q, model.VideoStatusFailed, errorMessage, time.Now().UTC(), videoID)
	return err
}

func (r *VideoRepository) GetByID(ctx context.Context, videoID string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, project_id, script, video_url, platforms, status, scheduled_for, published_at, metadata, error_message, created_at, updated_at FROM videos WHERE id=$1`, videoID)
	v := &model.Video{}
	var videoURL, errMsg sql.NullString
	var scheduledFor, publishedAt sql.NullTime
	var metadata []byte
	if err := row.Scan(&v.ID, &v.ProjectID, &v.Script, &videoURL, pq.Array(&v.Platforms), &v.Status, &scheduledFor, &publishedAt, &metadata, &errMsg, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if videoURL.Valid {
		v.VideoURL = videoURL.String
	}
	if scheduledFor.Valid {
		t := scheduledFor.Time
		v.ScheduledFor = &t
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		v.PublishedAt = &t
	}
	if errMsg.Valid {
		v.ErrorMessage = &errMsg.String
	}
	if len(metadata) > 0 {
		meta := &model.VideoMetadata{}
		if err := json.Unmarshal(metadata, meta); err == nil {
			v.Metadata = meta
		}
	}
	return v, nil
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	now := time.Now().UTC()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	var metadata interface{}
	if video.Metadata != nil {
		payload, err := json.Marshal(video.Metadata)
		if err != nil {
			return err
		}
		metadata = payload
	}
	q := `INSERT INTO videos (id, project_id, script, video_url, platforms, status, scheduled_for, metadata, created_at, updated_at)
	      VALUES (COALESCE(NULLIF($1,''), gen_random_uuid()::text), $2, $3, NULLIF($4,''), $5, $6, $7, $8, $9, $10)
	      RETURNING id`
	row := r.db.QueryRowContext(ctx, q,
		video.ID, video.ProjectID, video.Script, video.VideoURL, pq.Array(video.Platforms),
		video.Status, video.ScheduledFor, metadata, video.CreatedAt, video.UpdatedAt)
	return row.Scan(&video.ID)
}

func (r *VideoRepository) UpdateScript(ctx context.Context, videoID, script string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET script=$1, updated_at=$2 WHERE id=$3`, script, time.Now().UTC(), videoID)
	return err
}

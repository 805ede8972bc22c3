package corpus

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/killallgit/transcript-search/internal/models"
	apperrors "github.com/killallgit/transcript-search/pkg/errors"
	"github.com/killallgit/transcript-search/pkg/transcript"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new corpus repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func orderedSegments(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *repository) SaveAll(ctx context.Context, episodes []transcript.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ep := range episodes {
			if err := tx.Create(models.NewEpisode(ep)).Error; err != nil {
				return apperrors.DatabaseError("save", err).WithDetail("episode", ep.ID)
			}
		}
		return nil
	})
}

func (r *repository) LoadAll(ctx context.Context) ([]transcript.Episode, error) {
	var records []models.Episode
	err := r.db.WithContext(ctx).
		Preload("Segments", orderedSegments).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.DatabaseError("load", err)
	}

	episodes := make([]transcript.Episode, len(records))
	for i := range records {
		episodes[i] = records[i].ToTranscript()
	}
	return episodes, nil
}

func (r *repository) Get(ctx context.Context, episodeID string) (*transcript.Episode, error) {
	var record models.Episode
	err := r.db.WithContext(ctx).
		Preload("Segments", orderedSegments).
		Where("episode_id = ?", episodeID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewEpisodeNotFound(episodeID)
		}
		return nil, apperrors.DatabaseError("get", err)
	}

	ep := record.ToTranscript()
	return &ep, nil
}

func (r *repository) Delete(ctx context.Context, episodeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Episode
		if err := tx.Where("episode_id = ?", episodeID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewEpisodeNotFound(episodeID)
			}
			return apperrors.DatabaseError("delete", err)
		}

		if err := tx.Where("episode_record_id = ?", record.ID).Delete(&models.Segment{}).Error; err != nil {
			return apperrors.DatabaseError("delete segments", err)
		}
		if err := tx.Delete(&record).Error; err != nil {
			return apperrors.DatabaseError("delete", err)
		}
		return nil
	})
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Episode{}).Count(&count).Error; err != nil {
		return 0, apperrors.DatabaseError("count", err)
	}
	return count, nil
}

package models

import (
	"time"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

// Episode is a persisted transcript episode. ID orders the corpus by import.
type Episode struct {
	ID           uint   `gorm:"primaryKey"`
	EpisodeID    string `gorm:"uniqueIndex;not null"`
	Title        string `gorm:"not null"`
	PodcastTitle string `gorm:"index"`
	Duration     float64
	PublishDate  string
	Description  *string   `gorm:"type:text"`
	Segments     []Segment `gorm:"foreignKey:EpisodeRecordID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

// Segment is one persisted transcript segment. Position keeps playback order.
type Segment struct {
	ID              uint   `gorm:"primaryKey"`
	EpisodeRecordID uint   `gorm:"not null;index:idx_segment_order,priority:1"`
	Position        int    `gorm:"not null;index:idx_segment_order,priority:2"`
	SegmentID       string `gorm:"not null"`
	Text            string `gorm:"type:text;not null"`
	Timestamp       float64
	Speaker         *string
	Confidence      *float64
}

// All returns every corpus model for migration
func All() []any {
	return []any{&Episode{}, &Segment{}}
}

// NewEpisode converts an extracted episode into its record
func NewEpisode(ep transcript.Episode) *Episode {
	rec := &Episode{
		EpisodeID:    ep.ID,
		Title:        ep.Title,
		PodcastTitle: ep.PodcastTitle,
		Duration:     ep.Duration,
		PublishDate:  ep.PublishDate,
		Description:  ep.Description,
		Segments:     make([]Segment, len(ep.Transcript)),
	}
	for i, seg := range ep.Transcript {
		rec.Segments[i] = Segment{
			Position:   i,
			SegmentID:  seg.ID,
			Text:       seg.Text,
			Timestamp:  seg.Timestamp,
			Speaker:    seg.Speaker,
			Confidence: seg.Confidence,
		}
	}
	return rec
}

// ToTranscript converts the record back into the canonical episode. Segments must be loaded
// in position order.
func (e *Episode) ToTranscript() transcript.Episode {
	ep := transcript.Episode{
		ID:           e.EpisodeID,
		Title:        e.Title,
		PodcastTitle: e.PodcastTitle,
		Duration:     e.Duration,
		PublishDate:  e.PublishDate,
		Description:  e.Description,
		Transcript:   make([]transcript.Segment, len(e.Segments)),
	}
	for i, seg := range e.Segments {
		ep.Transcript[i] = transcript.Segment{
			ID:         seg.SegmentID,
			Text:       seg.Text,
			Timestamp:  seg.Timestamp,
			Speaker:    seg.Speaker,
			Confidence: seg.Confidence,
		}
	}
	return ep
}

// EpisodeSummary is an episode without its transcript, for listings
type EpisodeSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	PodcastTitle string  `json:"podcastTitle"`
	Duration     float64 `json:"duration"`
	PublishDate  string  `json:"publishDate"`
	SegmentCount int     `json:"segmentCount"`
}

// Summarize builds a listing entry for an episode
func Summarize(ep transcript.Episode) EpisodeSummary {
	return EpisodeSummary{
		ID:           ep.ID,
		Title:        ep.Title,
		PodcastTitle: ep.PodcastTitle,
		Duration:     ep.Duration,
		PublishDate:  ep.PublishDate,
		SegmentCount: len(ep.Transcript),
	}
}

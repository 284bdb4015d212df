package tutor

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// transcriptSourceResolver prefers a ready auto-generated transcript and falls
// back to the chapter description. It never fails: a broken transcript fetch
// is treated the same as "transcript not ready".
type transcriptSourceResolver struct {
	transcripts       TranscriptProvider
	preferredLanguage string
	maxDescription    int
	log               *zap.Logger
}

// NewSourceResolver builds the default resolver over a transcript provider.
func NewSourceResolver(transcripts TranscriptProvider, preferredLanguage string, maxDescriptionChars int, log *zap.Logger) SourceResolver {
	return &transcriptSourceResolver{
		transcripts:       transcripts,
		preferredLanguage: preferredLanguage,
		maxDescription:    maxDescriptionChars,
		log:               log,
	}
}

func (r *transcriptSourceResolver) Resolve(ctx context.Context, lesson Lesson) string {
	if transcript := r.fetchTranscript(ctx, lesson); transcript != "" {
		return transcript
	}
	return strings.TrimSpace(truncateRunes(lesson.Description, r.maxDescription))
}

func (r *transcriptSourceResolver) fetchTranscript(ctx context.Context, lesson Lesson) string {
	if lesson.AssetID == "" || lesson.PlaybackID == "" {
		return ""
	}

	trackID, err := r.transcripts.GeneratedTextTrackID(ctx, lesson.AssetID, r.preferredLanguage)
	if err != nil {
		r.log.Warn("transcript track listing failed",
			zap.String("chapter_id", lesson.ChapterID), zap.Error(err))
		return ""
	}
	if trackID == "" {
		return ""
	}

	text, err := r.transcripts.TranscriptText(ctx, lesson.PlaybackID, trackID)
	if err != nil {
		r.log.Warn("transcript download failed",
			zap.String("chapter_id", lesson.ChapterID), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

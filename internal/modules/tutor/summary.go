package tutor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// sourceHash marker for chapters with no material at all.
const noSourceHash = "no-source"

// GenerateSummaryFunc produces a summary from a system instruction and the
// lesson content. Injected so the cache can be tested without a live provider.
type GenerateSummaryFunc func(ctx context.Context, instruction, content string) (string, error)

// SummaryCache memoizes the generated lesson summary per chapter, keyed by
// the hash of the source text it was built from. Generation cost is bounded
// by content changes, never by request volume: the hash check runs before any
// external call.
//
// Two concurrent misses for the same chapter may both generate; the second
// write wins. Summaries for the same source hash are interchangeable, so the
// overwrite is harmless and not worth serializing.
type SummaryCache struct {
	store          SummaryStore
	resolver       SourceResolver
	maxSourceChars int
	log            *zap.Logger
}

func NewSummaryCache(store SummaryStore, resolver SourceResolver, maxSourceChars int, log *zap.Logger) *SummaryCache {
	return &SummaryCache{
		store:          store,
		resolver:       resolver,
		maxSourceChars: maxSourceChars,
		log:            log,
	}
}

// GetOrBuild returns the current summary for the lesson, generating it only
// when the resolved source text changed since the cached one was built.
func (c *SummaryCache) GetOrBuild(ctx context.Context, lesson Lesson, generate GenerateSummaryFunc) (string, error) {
	sourceText := strings.TrimSpace(truncateRunes(c.resolver.Resolve(ctx, lesson), c.maxSourceChars))

	cached, cachedHash, ok, err := c.store.Get(ctx, lesson.ChapterID)
	if err != nil {
		return "", errInternal(err)
	}

	if sourceText == "" {
		// Nothing to summarize; persist the placeholder so the empty state is
		// cached like any other.
		if ok && cachedHash == noSourceHash {
			return cached, nil
		}
		minimal := placeholderSummary(lesson)
		if err := c.store.Put(ctx, lesson.ChapterID, minimal, noSourceHash); err != nil {
			return "", errInternal(err)
		}
		return minimal, nil
	}

	hash := hashText(sourceText)
	if ok && cachedHash == hash {
		return cached, nil
	}

	summary, err := generate(ctx, summarySystemPrompt, buildSummaryContent(lesson, sourceText))
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = placeholderSummary(lesson)
	}

	if err := c.store.Put(ctx, lesson.ChapterID, summary, hash); err != nil {
		return "", errInternal(err)
	}

	c.log.Info("lesson summary regenerated",
		zap.String("chapter_id", lesson.ChapterID),
		zap.String("source_hash", hash))
	return summary, nil
}

func hashText(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

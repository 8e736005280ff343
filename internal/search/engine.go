package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mizan/internal/constants"
	"mizan/internal/volume"
)

const (
	MinHadithQueryLen  = 3 // anything shorter is noise over full hadith text
	MinHeadingQueryLen = 2
	MaxHeadingResults  = 10
)

// VolumeLoader - what the engine needs from the volume store
type VolumeLoader interface {
	LoadVolume(ctx context.Context, volumeNum int) volume.Result
	Volumes() []int
}

// Engine - Substring search over every known volume. No index: each search loads all volumes and scans them.
type Engine struct {
	loader VolumeLoader
	logger *zap.Logger
}

func NewEngine(loader VolumeLoader, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{loader: loader, logger: logger}
}

// matcher - English is matched case-insensitively, Arabic literally (no diacritic or letter-form normalization)
type matcher struct {
	raw   string
	lower string
}

func newMatcher(query string) matcher {
	return matcher{raw: query, lower: strings.ToLower(query)}
}

func (m matcher) matches(en string, ar string) bool {
	return strings.Contains(strings.ToLower(en), m.lower) || strings.Contains(ar, m.raw)
}

// SearchHadiths - Every hadith whose text, section title or chapter title contains the query.
// Ordered by volume then document order; no ranking, dedup or cap. Never nil.
func (e *Engine) SearchHadiths(ctx context.Context, query string) []constants.HadithMatch {
	results := []constants.HadithMatch{}
	if utf8.RuneCountInString(query) < MinHadithQueryLen {
		return results
	}

	start := time.Now()
	m := newMatcher(query)
	for _, res := range e.loadAll(ctx) {
		for _, chapter := range res.Chapters {
			chapterHit := m.matches(chapter.TitleEn, chapter.TitleAr)
			for _, section := range chapter.Sections {
				sectionHit := chapterHit || m.matches(section.TitleEn, section.TitleAr)
				for _, hadith := range section.Hadiths {
					if sectionHit || m.matches(hadith.TextEn, hadith.TextAr) {
						results = append(results, constants.HadithMatch{
							Volume:  res.Volume,
							Chapter: chapter,
							Section: section,
							Hadith:  hadith,
						})
					}
				}
			}
		}
	}

	if ctx.Err() != nil {
		return []constants.HadithMatch{}
	}
	e.logger.Debug("Hadith search done",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)))
	return results
}

// SearchHeadings - Chapter and section titles containing the query, first MaxHeadingResults in document order.
// A chapter match and its matching sections are reported independently.
func (e *Engine) SearchHeadings(ctx context.Context, query string) []constants.HeadingMatch {
	results := []constants.HeadingMatch{}
	if utf8.RuneCountInString(query) < MinHeadingQueryLen {
		return results
	}

	m := newMatcher(query)
scan:
	for _, res := range e.loadAll(ctx) {
		for _, chapter := range res.Chapters {
			if m.matches(chapter.TitleEn, chapter.TitleAr) {
				results = append(results, constants.HeadingMatch{
					Kind:       constants.ChapterHeading,
					TitleEn:    chapter.TitleEn,
					TitleAr:    chapter.TitleAr,
					Volume:     res.Volume,
					ChapterNum: chapter.ChapterNum,
				})
			}
			for _, section := range chapter.Sections {
				if !m.matches(section.TitleEn, section.TitleAr) {
					continue
				}
				sectionNum := section.SectionNum
				results = append(results, constants.HeadingMatch{
					Kind:       constants.SectionHeading,
					TitleEn:    section.TitleEn,
					TitleAr:    section.TitleAr,
					Volume:     res.Volume,
					ChapterNum: chapter.ChapterNum,
					SectionNum: &sectionNum,
				})
			}
			if len(results) >= MaxHeadingResults {
				break scan
			}
		}
	}

	if ctx.Err() != nil {
		return []constants.HeadingMatch{}
	}
	if len(results) > MaxHeadingResults {
		results = results[:MaxHeadingResults]
	}
	return results
}

// loadAll - Load every known volume at once. Results come back in volume order whatever order the loads finish in.
func (e *Engine) loadAll(ctx context.Context) []volume.Result {
	volumes := e.loader.Volumes()
	results := make([]volume.Result, len(volumes))

	var g errgroup.Group
	for i, num := range volumes {
		g.Go(func() error {
			results[i] = e.loader.LoadVolume(ctx, num)
			return nil
		})
	}
	_ = g.Wait() // loads never fail, a failed volume is just empty

	return results
}

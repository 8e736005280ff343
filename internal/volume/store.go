package volume

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"mizan/internal/constants"
)

const DefaultPattern = "mizan_al_hikmah_vol%d.json"

// Result - Outcome of loading a volume. Chapters is never nil; on failure it is empty and Cause says why.
type Result struct {
	Volume   int
	Chapters constants.Volume
	Cause    error
}

func (r Result) Ok() bool {
	return r.Cause == nil
}

// Store - Loads volume documents. There is no cache: every load re-fetches and re-parses,
// but concurrent loads of the same volume share one fetch.
type Store struct {
	fetcher Fetcher
	pattern string
	volumes []int
	logger  *zap.Logger
	group   singleflight.Group
}

func NewStore(fetcher Fetcher, pattern string, volumes []int, logger *zap.Logger) *Store {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if len(volumes) == 0 {
		volumes = constants.VolumeNumbers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher: fetcher,
		pattern: pattern,
		volumes: append([]int(nil), volumes...),
		logger:  logger,
	}
}

// Volumes - the known volume numbers, ascending
func (s *Store) Volumes() []int {
	return append([]int(nil), s.volumes...)
}

// DocumentName - file name of a volume's document, e.g. mizan_al_hikmah_vol1.json
func (s *Store) DocumentName(volumeNum int) string {
	return fmt.Sprintf(s.pattern, volumeNum)
}

// LoadVolume - Fetch and decode one volume. Never fails outright: any error is logged and
// turned into an empty result.
func (s *Store) LoadVolume(ctx context.Context, volumeNum int) Result {
	if err := ctx.Err(); err != nil {
		return s.failed(volumeNum, err)
	}

	// raw bytes are shared between concurrent callers but decoding is not, so every caller owns its snapshot.
	// The shared fetch outlives any one caller; a caller only stops waiting when its ctx ends.
	ch := s.group.DoChan(strconv.Itoa(volumeNum), func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx), volumeNum)
	})

	var raw []byte
	select {
	case <-ctx.Done():
		return s.failed(volumeNum, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return s.failed(volumeNum, res.Err)
		}
		raw = res.Val.([]byte)
	}

	chapters := constants.Volume{}
	if err := json.Unmarshal(raw, &chapters); err != nil {
		return s.failed(volumeNum, fmt.Errorf("decoding volume %d: %w", volumeNum, err))
	}
	if chapters == nil {
		// a document containing `null`
		chapters = constants.Volume{}
	}

	s.logger.Debug("Volume loaded", zap.Int("volume", volumeNum), zap.Int("chapters", len(chapters)))
	return Result{Volume: volumeNum, Chapters: chapters}
}

func (s *Store) fetch(ctx context.Context, volumeNum int) ([]byte, error) {
	body, err := s.fetcher.Fetch(ctx, s.DocumentName(volumeNum))
	if err != nil {
		return nil, fmt.Errorf("fetching volume %d: %w", volumeNum, err)
	}
	defer body.Close()

	// the whole document is kept so decoding rejects anything trailing the top-level value
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading volume %d: %w", volumeNum, err)
	}
	return raw, nil
}

func (s *Store) failed(volumeNum int, err error) Result {
	s.logger.Warn("Error loading volume", zap.Int("volume", volumeNum), zap.Error(err))
	return Result{Volume: volumeNum, Chapters: constants.Volume{}, Cause: err}
}

// FindChapter - Look a chapter up by number. false when the volume failed to load or the chapter isn't in it.
func (s *Store) FindChapter(ctx context.Context, volumeNum int, chapterNum int) (constants.Chapter, bool) {
	for _, chapter := range s.LoadVolume(ctx, volumeNum).Chapters {
		if chapter.ChapterNum == chapterNum {
			return chapter, true
		}
	}
	return constants.Chapter{}, false
}

// FindHadith - Look a single hadith up along with its chapter and section
func (s *Store) FindHadith(ctx context.Context, ref constants.HadithRef) (constants.HadithMatch, bool) {
	chapter, ok := s.FindChapter(ctx, ref.Volume, ref.ChapterNum)
	if !ok {
		return constants.HadithMatch{}, false
	}
	for _, section := range chapter.Sections {
		if section.SectionNum != ref.SectionNum {
			continue
		}
		for _, hadith := range section.Hadiths {
			if hadith.HadithNum == ref.HadithNum {
				return constants.HadithMatch{Volume: ref.Volume, Chapter: chapter, Section: section, Hadith: hadith}, true
			}
		}
	}
	return constants.HadithMatch{}, false
}

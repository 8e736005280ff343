package vector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mizan/internal/constants"
	"mizan/internal/volume"
)

const (
	MaxVectors       = 50 // points per upsert
	MaxVectorWorkers = 10
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Writer - where embedded hadiths end up (Db in production)
type Writer interface {
	EnsureCollection(ctx context.Context, size uint64) error
	Add(ctx context.Context, batch []constants.HadithEmbedding) error
}

type VolumeLoader interface {
	LoadVolume(ctx context.Context, volumeNum int) volume.Result
	Volumes() []int
}

// Indexer - Embeds every hadith of every volume and pushes them into the vector db in batches
type Indexer struct {
	loader   VolumeLoader
	embedder Embedder
	writer   Writer
	workers  int
	logger   *zap.Logger
}

func NewIndexer(loader VolumeLoader, embedder Embedder, writer Writer, workers int, logger *zap.Logger) *Indexer {
	if workers < 1 {
		workers = MaxVectorWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{loader: loader, embedder: embedder, writer: writer, workers: workers, logger: logger}
}

type job struct {
	ref     constants.HadithRef
	content string
}

// EmbedContent - what actually gets embedded for a hadith: where it sits plus its english text
func EmbedContent(chapter constants.Chapter, section constants.Section, hadith constants.Hadith) string {
	var b strings.Builder
	b.WriteString(chapter.TitleEn)
	b.WriteString(" - ")
	b.WriteString(section.TitleEn)
	b.WriteString("\n")
	b.WriteString(hadith.TextEn)
	return b.String()
}

// Run - Index everything. Returns how many hadiths were written. A volume that fails to load is skipped.
func (ix *Indexer) Run(ctx context.Context) (int, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job, ix.workers*2)
	embedded := make(chan constants.HadithEmbedding, MaxVectors)

	// producer: walk the volumes in order
	g.Go(func() error {
		defer close(jobs)
		for _, num := range ix.loader.Volumes() {
			res := ix.loader.LoadVolume(ctx, num)
			if !res.Ok() {
				ix.logger.Warn("Skipping volume", zap.Int("volume", num), zap.Error(res.Cause))
				continue
			}
			for _, chapter := range res.Chapters {
				for _, section := range chapter.Sections {
					for _, hadith := range section.Hadiths {
						j := job{
							ref: constants.HadithRef{
								Volume:     num,
								ChapterNum: chapter.ChapterNum,
								SectionNum: section.SectionNum,
								HadithNum:  hadith.HadithNum,
							},
							content: EmbedContent(chapter, section, hadith),
						}
						select {
						case jobs <- j:
						case <-ctx.Done():
							return ctx.Err()
						}
					}
				}
			}
		}
		return nil
	})

	// embedders
	var workersWg sync.WaitGroup
	for i := 0; i < ix.workers; i++ {
		workersWg.Add(1)
		g.Go(func() error {
			defer workersWg.Done()
			for j := range jobs {
				vec, err := ix.embedder.Embed(ctx, j.content)
				if err != nil {
					return fmt.Errorf("embedding hadith %d (volume %d): %w", j.ref.HadithNum, j.ref.Volume, err)
				}
				select {
				case embedded <- constants.HadithEmbedding{HadithRef: j.ref, Embedding: vec, Content: j.content}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workersWg.Wait()
		close(embedded)
	}()

	// single writer, so the collection is created exactly once
	written := 0
	g.Go(func() error {
		batch := make([]constants.HadithEmbedding, 0, MaxVectors)
		ensured := false
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if !ensured {
				if err := ix.writer.EnsureCollection(ctx, uint64(len(batch[0].Embedding))); err != nil {
					return fmt.Errorf("creating collection: %w", err)
				}
				ensured = true
			}
			if err := ix.writer.Add(ctx, batch); err != nil {
				return err
			}
			written += len(batch)
			ix.logger.Info("Indexed batch", zap.Int("size", len(batch)), zap.Int("total", written))
			batch = batch[:0]
			return nil
		}

		for e := range embedded {
			batch = append(batch, e)
			if len(batch) == MaxVectors {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return written, err
	}
	ix.logger.Info("Indexing done", zap.Int("hadiths", written), zap.Duration("took", time.Since(start)))
	return written, nil
}

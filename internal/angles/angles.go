// Package angles fans one approved mockup out into a set of camera-angle
// variants generated in parallel.
package angles

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"merch-studio-kit/internal/genai"
	"merch-studio-kit/internal/prompt"
)

// ImageGenerator is the slice of the remote client angle generation needs.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (genai.ImageResult, error)
}

// Result is one angle slot of a series. Failed slots carry Err and an
// empty Image; the rest of the series is unaffected.
type Result struct {
	Angle string
	Image string
	Err   error
}

type Options struct {
	Generator  ImageGenerator
	MaxWorkers int
	Logger     *slog.Logger
}

type Series struct {
	gen     ImageGenerator
	workers int
	logger  *slog.Logger
}

func New(opts Options) (*Series, error) {
	if opts.Generator == nil {
		return nil, errors.New("angles: generator is required")
	}
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Series{gen: opts.Generator, workers: workers, logger: logger}, nil
}

// Generate renders one variant per requested angle from the same seed
// image and base description. Results come back slot-for-slot in the
// order the angles were requested, independent of completion order.
func (s *Series) Generate(ctx context.Context, seed genai.ImageInput, base string, angleKeys []string) ([]Result, error) {
	if len(angleKeys) == 0 {
		angleKeys = prompt.Angles()
	}
	results := make([]Result, len(angleKeys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, key := range angleKeys {
		results[i].Angle = key
		g.Go(func() error {
			res, err := s.gen.GenerateImage(gctx, genai.ImageRequest{
				Prompt: prompt.BuildAnglePrompt(base, key),
				Images: []genai.ImageInput{seed},
			})
			if err != nil {
				s.logger.Warn("angle generation failed", "angle", key, "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Image = res.Images[0]
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

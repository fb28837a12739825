package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/somnus/constellation/pkg/layout"
	"github.com/somnus/constellation/pkg/render"
)

// RenderLayout renders l in every requested format without caching.
// Formats render concurrently; the first failure cancels the rest.
func RenderLayout(ctx context.Context, l layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return renderFormats(ctx, l, opts, opts.Formats)
}

func renderFormats(ctx context.Context, l layout.Result, opts Options, formats []string) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := render.New(format, opts.RenderOptions())
			if err != nil {
				return err
			}
			data, err := r.Render(l)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

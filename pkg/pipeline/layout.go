package pipeline

import (
	"github.com/somnus/constellation/pkg/constellation"
	"github.com/somnus/constellation/pkg/layout"
)

// ComputeLayout runs the layout stage without caching.
func ComputeLayout(g constellation.Graph, opts Options) (layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, err
	}
	return layout.Compute(g, opts.Width, opts.CanvasHeight(g.NodeCount()), layout.WithConfig(opts.Layout))
}

// Package search runs branch-and-bound over a transform hierarchy.
//
// Run scores every base cell, then repeatedly keeps the best cells of the
// current depth, refines them into their 64 children with
// hier.XformHier.ExpandTopN and scores those. Scoring fans out in batches
// bounded by a resource.Controller. The scored cells of every depth are
// returned as roaring bitmaps so that a later run can exclude them.
//
//	res, err := search.Run(ctx, h, func(ctx context.Context, depth int, xs []geom.Xform[float64], scores []float64) error {
//	    for i, x := range xs {
//	        scores[i] = score(x)
//	    }
//	    return nil
//	}, search.WithBeam(1000), search.WithMaxDepth(4))
package search

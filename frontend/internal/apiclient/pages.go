package apiclient

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultPageLimit is the page size AllPages uses when none is given.
const DefaultPageLimit = 100

// PageFetcher retrieves the page starting at offset.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) (Page[T], error)

// AllPages reads the first page to learn the total count, then fetches the
// remaining pages concurrently. Items come back in offset order. The first
// failure cancels the outstanding fetches and is returned.
func AllPages[T any](ctx context.Context, fetch PageFetcher[T], limit int) ([]T, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	first, err := fetch(ctx, limit, 0)
	if err != nil {
		return nil, err
	}

	numPages := (first.Count + limit - 1) / limit
	if numPages <= 1 {
		return first.Items, nil
	}

	pages := make([][]T, numPages)
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i < numPages; i++ {
		g.Go(func() error {
			page, err := fetch(gctx, limit, i*limit)
			if err != nil {
				return err
			}
			pages[i] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, items := range pages {
		total += len(items)
	}
	all := make([]T, 0, total)
	for _, items := range pages {
		all = append(all, items...)
	}
	return all, nil
}

package cli

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/iterutil"
	"github.com/karupanerura/async-image/unsplash"
)

type gridOpts struct {
	*rootOpts
	sample string
}

func newGrid(parent *rootOpts) *gridOpts {
	return &gridOpts{rootOpts: parent}
}

func (opts *gridOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid <query>",
		Short: "Search photos, then load every hit concurrently.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVar(&opts.sample, "sample", "", "read a saved search result from this file instead of calling the API")
	return cmd
}

func (opts *gridOpts) RunE(cmd *cobra.Command, args []string) error {
	result, err := opts.photos(cmd, args, opts.sample)
	if err != nil {
		return err
	}

	variant := opts.config.Variant()
	urls := slices.Collect(iterutil.Uniq(iterutil.Filter(
		iterutil.Map(slices.Values(result.Results), func(p unsplash.Photo) string {
			return p.URL(variant)
		}),
		func(url string) bool { return url != "" },
	)))

	var cached, loaded, failed atomic.Int32
	p := pool.New().WithMaxGoroutines(opts.config.Concurrency()).WithContext(cmd.Context())
	for _, url := range urls {
		p.Go(func(ctx context.Context) error {
			switch s := opts.loadOne(ctx, url, false); s.State {
			case asyncimage.StateCacheHit:
				cached.Add(1)
			case asyncimage.StateLoaded:
				loaded.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(opts.out, "photos: %d\nimages: %d\ncached: %d\nloaded: %d\nfailed: %d\n",
		len(result.Results), len(urls), cached.Load(), loaded.Load(), failed.Load())
	return nil
}

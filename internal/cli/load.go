package cli

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	asyncimage "github.com/karupanerura/async-image"
	"github.com/karupanerura/async-image/internal/iterutil"
)

type loadOpts struct {
	*rootOpts
	refresh bool
}

func newLoad(parent *rootOpts) *loadOpts {
	return &loadOpts{rootOpts: parent}
}

func (opts *loadOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <url>...",
		Short: "Load images and report their state, format and dimensions.",
		RunE:  opts.RunE,
	}
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "fetch even if the response cache holds the image")
	return cmd
}

func (opts *loadOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errorWantedURLs
	}
	urls := slices.Collect(iterutil.Uniq(slices.Values(args)))

	var (
		mu        sync.Mutex
		snapshots = make(map[string]asyncimage.Snapshot, len(urls))
	)
	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(opts.config.Concurrency())
	for _, url := range urls {
		eg.Go(func() error {
			snapshot := opts.loadOne(ctx, url, opts.refresh)
			mu.Lock()
			defer mu.Unlock()
			snapshots[url] = snapshot
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	failed := 0
	out := newTabwriter(opts.out)
	fmt.Fprintln(out, "URL\tSTATE\tFORMAT\tSIZE\tERROR")
	for _, url := range urls {
		s := snapshots[url]
		w, h := dimensions(s.Image)
		format, errText := "", ""
		if s.Image != nil {
			format = s.Image.Format
		}
		if s.Err != nil {
			errText = s.Err.Error()
			failed++
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%dx%d\t%s\n", url, s.State, format, w, h, errText)
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d of %d images failed to load", failed, len(urls))
	}
	return nil
}

// loadOne takes the image from the cache if possible, loads it otherwise, and returns the settled snapshot.
func (opts *rootOpts) loadOne(ctx context.Context, url string, refresh bool) asyncimage.Snapshot {
	loader := opts.registry.Get(url)
	if !refresh && loader.CheckCache(ctx) {
		level.Debug(opts.logger).Log("op", "load", "url", url, "cache", "hit")
		return loader.Snapshot()
	}
	if _, err := loader.Load(ctx); err != nil {
		level.Debug(opts.logger).Log("op", "load", "url", url, "err", err)
	}
	snapshot, err := loader.Wait(ctx)
	if err != nil {
		return loader.Snapshot()
	}
	return snapshot
}

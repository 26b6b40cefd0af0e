package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karupanerura/async-image/unsplash"
)

type searchOpts struct {
	*rootOpts
	sample string
	raw    bool
}

func newSearch(parent *rootOpts) *searchOpts {
	return &searchOpts{rootOpts: parent}
}

func (opts *searchOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search photos and list them.",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringVar(&opts.sample, "sample", "", "read a saved search result from this file instead of calling the API")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the search result as JSON")
	return cmd
}

func (opts *searchOpts) RunE(cmd *cobra.Command, args []string) error {
	result, err := opts.photos(cmd, args, opts.sample)
	if err != nil {
		return err
	}

	if opts.raw {
		enc := json.NewEncoder(opts.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := newTabwriter(opts.out)
	fmt.Fprintln(out, "ID\tSIZE\tDESCRIPTION\tURL")
	for _, p := range result.Results {
		description := ""
		if p.Description != nil {
			description = *p.Description
		}
		size := p.Size()
		fmt.Fprintf(out, "%s\t%dx%d\t%s\t%s\n", p.ID, size.X, size.Y, description, p.URL(opts.config.Variant()))
	}
	return out.Flush()
}

// photos runs the search given on the command line, or reads it from sample.
func (opts *rootOpts) photos(cmd *cobra.Command, args []string, sample string) (*unsplash.SearchResult, error) {
	if sample != "" {
		if len(args) != 0 {
			return nil, newUsageError("a query cannot be combined with --sample")
		}
		f, err := os.Open(sample)
		if err != nil {
			return nil, errors.Wrap(err, "opening sample")
		}
		defer f.Close()

		photos, err := unsplash.LoadSample(f)
		if err != nil {
			return nil, err
		}
		return &unsplash.SearchResult{Total: len(photos), TotalPages: 1, Results: photos}, nil
	}

	if len(args) == 0 {
		return nil, errorWantedQuery
	}
	client, err := opts.searchClient()
	if err != nil {
		return nil, err
	}
	return client.Search(cmd.Context(), strings.Join(args, " "))
}

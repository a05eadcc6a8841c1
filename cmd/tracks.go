package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/formatter"
	"github.com/desertthunder/trackbrowse/internal/query"
	"github.com/desertthunder/trackbrowse/internal/shared"
	"github.com/urfave/cli/v3"
)

// searchOptions reads --search and --genre.
func searchOptions(cmd *cli.Command) browse.SearchOptions {
	opts := browse.SearchOptions{Substring: cmd.String("search"), GenreIDs: []int{}}
	for _, id := range cmd.IntSlice("genre") {
		opts.GenreIDs = append(opts.GenreIDs, int(id))
	}
	return opts
}

// TracksList submits a search, moves to --page and prints the resulting page.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	page := int(cmd.Int("page"))
	if page < 1 {
		return fmt.Errorf("%w: --page must be at least 1", shared.ErrInvalidFlag)
	}

	var invoiced browse.InvoicedItems
	if repo, err := r.invoices(); err != nil {
		r.logger.Warn("invoice unavailable, rows will not be marked", "error", err)
	} else {
		invoiced = repo
		defer r.Close()
	}

	session := r.newSession(invoiced, browse.Options{})
	search := searchOptions(cmd)
	session.SetSubstring(search.Substring)
	session.SetGenres(search.GenreIDs)

	if _, err := session.Submit(ctx); err != nil {
		return err
	}
	if page > 1 {
		if err := session.ChangePage(ctx, page); err != nil {
			return err
		}
	}

	listing := formatter.NewListing(session, query.Expression(session.Snapshot().Applied))

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(listing, cmd.String("format"), path); err != nil {
			return err
		}
		r.logger.Info("listing written", "path", path, "tracks", len(listing.Rows))
		return nil
	}

	data, err := formatter.Render(cmd.String("format"), listing)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// TracksCount prints the number of tracks matching the search.
func (r *Runner) TracksCount(ctx context.Context, cmd *cli.Command) error {
	search := searchOptions(cmd)
	n, err := r.catalog.CountTracks(ctx, r.catalog.Authenticated(), search.Filter())
	if err != nil {
		return err
	}
	return r.writePlain("%d\n", n)
}

// Genres prints the catalog genres.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.catalog.ListGenres(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	for _, g := range genres {
		if err := r.writePlain("%d\t%s\n", g.ID, g.Name); err != nil {
			return err
		}
	}
	return nil
}

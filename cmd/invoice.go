package main

import (
	"context"

	"github.com/desertthunder/trackbrowse/internal/formatter"
	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/urfave/cli/v3"
)

// InvoiceAdd records a track on the local invoice.
func (r *Runner) InvoiceAdd(ctx context.Context, cmd *cli.Command) error {
	trackID, err := trackIDArg(cmd)
	if err != nil {
		return err
	}

	repo, err := r.invoices()
	if err != nil {
		return err
	}
	defer r.Close()

	item := models.NewInvoiceItem(trackID, cmd.String("name"), cmd.Float("price"))
	if err := repo.Create(item); err != nil {
		return err
	}

	r.logger.Debug("invoice item created", "id", item.ID(), "track_id", trackID)
	return r.writePlain("✓ Track %d added to the invoice\n", trackID)
}

// InvoiceList prints the invoice and its total.
func (r *Runner) InvoiceList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.invoices()
	if err != nil {
		return err
	}
	defer r.Close()

	items, err := repo.List()
	if err != nil {
		return err
	}
	total, err := formatter.InvoiceTotal(items)
	if err != nil {
		return err
	}

	r.writePlainHeader("Invoice")
	for _, item := range items {
		if err := r.writePlain("%d\t%s\t%s\n", item.TrackID(), item.Name(), formatter.FormatPrice(item.UnitPrice())); err != nil {
			return err
		}
	}
	return r.writePlain("\n%d tracks, total %s\n", len(items), total.Display())
}

// InvoiceRemove removes a track from the local invoice.
func (r *Runner) InvoiceRemove(ctx context.Context, cmd *cli.Command) error {
	trackID, err := trackIDArg(cmd)
	if err != nil {
		return err
	}

	repo, err := r.invoices()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := repo.DeleteByTrackID(trackID); err != nil {
		return err
	}
	return r.writePlain("✓ Track %d removed from the invoice\n", trackID)
}

package cli

import (
	"context"
	"fmt"

	"simspay/internal/models"
)

// History enters the history view: reset, then load the first page.
func (a *App) History(ctx context.Context) error {
	a.history.Reset()
	return a.More(ctx)
}

// More loads the next page and prints the newly received records.
func (a *App) More(ctx context.Context) error {
	if a.history.Exhausted() {
		printlnFn("No more transactions.")
		return nil
	}

	page, err := a.history.LoadNextPage(ctx, a.config.HistoryPageSize)
	if err != nil {
		a.printErr(err)
		return err
	}

	if len(page) == 0 {
		printlnFn("No more transactions.")
		return nil
	}
	for _, rec := range page {
		printlnFn(formatRecord(rec))
	}
	if a.history.Exhausted() {
		printlnFn("(end of history)")
	}
	return nil
}

func formatRecord(r models.TransactionRecord) string {
	sign := "-"
	if r.Type == models.TransactionTopUp {
		sign = "+"
	}
	return fmt.Sprintf("%s  %s%s  %s",
		r.CreatedAt.Format("2006-01-02 15:04"), sign, formatRupiah(r.Amount), r.Description)
}

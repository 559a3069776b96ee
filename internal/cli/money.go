package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Home refreshes profile, balance, services and banners concurrently
// (they are independent resources) and renders whatever succeeded,
// falling back to cached values for the rest.
func (a *App) Home(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, fn := range []func(){
		func() { _, _ = a.cache.RefreshProfile(ctx) },
		func() { _, _ = a.cache.RefreshBalance(ctx) },
		func() { _, _ = a.cache.RefreshServices(ctx) },
		func() { _, _ = a.cache.RefreshBanners(ctx) },
	} {
		fn := fn
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	wg.Wait()

	if p, ok := a.cache.Profile(); ok {
		printlnFn(fmt.Sprintf("Welcome, %s %s", p.FirstName, p.LastName))
	}
	if b, ok := a.cache.Balance(); ok {
		printlnFn("Balance:", formatRupiah(b))
	} else {
		printlnFn("Balance: unavailable")
	}
	if svcs, ok := a.cache.Services(); ok {
		printlnFn(fmt.Sprintf("%d services available (type 'services' to list)", len(svcs)))
	}
	if banners, ok := a.cache.Banners(); ok {
		for _, b := range banners {
			printlnFn("*", b.Name, "-", b.Description)
		}
	}
	return nil
}

func (a *App) Balance(ctx context.Context) error {
	b, err := a.cache.RefreshBalance(ctx)
	if err != nil {
		if cached, ok := a.cache.Balance(); ok {
			printlnFn("Balance (cached):", formatRupiah(cached))
			return nil
		}
		a.printErr(err)
		return err
	}
	printlnFn("Balance:", formatRupiah(b))
	return nil
}

func (a *App) Services(ctx context.Context) error {
	svcs, ok := a.cache.Services()
	if !ok {
		var err error
		svcs, err = a.cache.RefreshServices(ctx)
		if err != nil {
			a.printErr(err)
			return err
		}
	}
	for _, s := range svcs {
		printlnFn(fmt.Sprintf("%-12s %-24s %s", s.Code, s.Name, formatRupiah(s.Tariff)))
	}
	return nil
}

func (a *App) Banners(ctx context.Context) error {
	banners, ok := a.cache.Banners()
	if !ok {
		var err error
		banners, err = a.cache.RefreshBanners(ctx)
		if err != nil {
			a.printErr(err)
			return err
		}
	}
	for _, b := range banners {
		printlnFn("*", b.Name, "-", b.Description)
	}
	return nil
}

func (a *App) TopUp(ctx context.Context) error {
	raw, err := GetSimpleText(a.reader, "Enter top-up amount (Rp)", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Amount must be a whole number.")
		return err
	}

	balance, err := a.payments.TopUp(ctx, amount)
	if err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Top-up successful. New balance:", formatRupiah(balance))
	return nil
}

func (a *App) Pay(ctx context.Context) error {
	code, err := GetSimpleText(a.reader, "Enter service code (type 'services' for the list)", os.Stdout)
	if err != nil {
		return err
	}

	receipt, err := a.payments.Pay(ctx, code)
	if err != nil {
		a.printErr(err)
		return err
	}

	printlnFn("Payment successful:", receipt.ServiceName, formatRupiah(receipt.Amount))
	if b, ok := a.cache.Balance(); ok {
		printlnFn("Balance:", formatRupiah(b))
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"simspay/internal/api"
	"simspay/internal/cache"
	"simspay/internal/logging"
	"simspay/internal/models"
)

var ErrInvalidAmount = errors.New("top-up amount must be positive")

type PaymentService struct {
	gw    *api.Gateway
	cache *cache.Cache
	log   logging.Logger
}

func NewPaymentService(gw *api.Gateway, c *cache.Cache, log logging.Logger) *PaymentService {
	return &PaymentService{gw: gw, cache: c, log: log}
}

// TopUp adds amount (minor units) to the account. The balance returned
// by the server replaces the cached one before TopUp returns, so a
// read immediately after success already shows the new balance.
func (p *PaymentService) TopUp(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	body := map[string]int64{"top_up_amount": amount}
	res, err := p.gw.Request(ctx, http.MethodPost, "/topup", body)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode top-up response: %w", err)
	}

	p.cache.ApplyBalance(payload.Balance, res.Generation)
	return payload.Balance, nil
}

// Pay purchases the service identified by serviceCode and returns the
// receipt. When the response carries the post-payment balance it is
// written through; otherwise the balance is refreshed before Pay
// returns, keeping the "mutation visible before success" ordering
// either way.
func (p *PaymentService) Pay(ctx context.Context, serviceCode string) (models.Receipt, error) {
	body := map[string]string{"service_code": serviceCode}
	res, err := p.gw.Request(ctx, http.MethodPost, "/transaction", body)
	if err != nil {
		return models.Receipt{}, err
	}

	var payload struct {
		models.Receipt
		Balance *int64 `json:"balance"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return models.Receipt{}, fmt.Errorf("failed to decode payment response: %w", err)
	}

	if payload.Balance != nil {
		p.cache.ApplyBalance(*payload.Balance, res.Generation)
	} else if _, err := p.cache.RefreshBalance(ctx); err != nil {
		p.log.Warn(ctx, "failed to refresh balance after payment", "error", err)
	}
	return payload.Receipt, nil
}

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simspay/internal/models"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{40000, "Rp 40.000"},
		{1250000, "Rp 1.250.000"},
		{-40000, "-Rp 40.000"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, formatRupiah(tt.amount))
	}
}

func TestFormatRecord(t *testing.T) {
	rec := models.TransactionRecord{
		Type:        models.TransactionTopUp,
		Description: "Top Up balance",
		Amount:      100000,
		CreatedAt:   time.Date(2023, 8, 17, 10, 30, 0, 0, time.UTC),
	}
	got := formatRecord(rec)
	require.Contains(t, got, "+Rp 100.000")
	require.Contains(t, got, "Top Up balance")
	require.Contains(t, got, "2023-08-17 10:30")

	rec.Type = models.TransactionPayment
	require.Contains(t, formatRecord(rec), "-Rp 100.000")
}

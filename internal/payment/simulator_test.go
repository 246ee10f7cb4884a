package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreatePaymentPayload(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := NewSimulator(WithClock(func() time.Time { return fixed }))

	charge, err := s.CreatePayment(context.Background(), "order-1", 39.8, "buyer@example.com")
	assert.NoError(t, err)

	assert.Equal(t, "order-1", charge.ID)
	assert.Equal(t, "pix-1700000000000", charge.QRCodeID)
	assert.Equal(t, "pix://payment/order-1", charge.PixURL)
	assert.Equal(t, simulatedPixCode, charge.QRCode)
	assert.Contains(t, charge.QRImage, qrImageEndpoint)
	assert.Contains(t, charge.QRImage, "size=200x200")
	assert.Equal(t, "39.80", charge.Valor)
	assert.Equal(t, "buyer@example.com", charge.Email)
}

func TestCreatePaymentWireKeys(t *testing.T) {
	s := NewSimulator()

	charge, err := s.CreatePayment(context.Background(), "order-1", 19.9, "buyer@example.com")
	assert.NoError(t, err)

	raw, err := json.Marshal(charge)
	assert.NoError(t, err)

	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &payload))
	for _, key := range []string{"id", "qr_code_id", "pix_url", "qr_code", "qr_image", "valor", "email"} {
		assert.Contains(t, payload, key)
	}
	assert.Equal(t, "19.90", payload["valor"])
}

func TestCreatePaymentIsStablePerOrder(t *testing.T) {
	s := NewSimulator()

	first, err := s.CreatePayment(context.Background(), "order-1", 10, "a@b.com")
	assert.NoError(t, err)
	second, err := s.CreatePayment(context.Background(), "order-1", 10, "a@b.com")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreatePaymentRejectsNonPositiveTotal(t *testing.T) {
	s := NewSimulator()

	_, err := s.CreatePayment(context.Background(), "order-1", 0, "a@b.com")
	assert.Error(t, err)

	_, err = s.CreatePayment(context.Background(), "order-1", -5, "a@b.com")
	assert.Error(t, err)
}

func TestCheckStatusRequiresCharge(t *testing.T) {
	s := NewSimulator()

	_, err := s.CheckStatus(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestCheckStatusDraw(t *testing.T) {
	ctx := context.Background()

	draw := 0.9
	s := NewSimulator(WithDraw(func() float64 { return draw }))
	_, err := s.CreatePayment(ctx, "order-1", 10, "a@b.com")
	assert.NoError(t, err)

	check, err := s.CheckStatus(ctx, "order-1")
	assert.NoError(t, err)
	assert.False(t, check.IsPaid)
	assert.Equal(t, "ATIVA", check.Status)

	draw = 0.1
	check, err = s.CheckStatus(ctx, "order-1")
	assert.NoError(t, err)
	assert.True(t, check.IsPaid)
	assert.Equal(t, "CONCLUIDA", check.Status)
}

func TestCheckStatusProbabilityBounds(t *testing.T) {
	ctx := context.Background()

	always := NewSimulator(WithProbability(1.1))
	_, err := always.CreatePayment(ctx, "order-1", 10, "a@b.com")
	assert.NoError(t, err)
	never := NewSimulator(WithProbability(0))
	_, err = never.CreatePayment(ctx, "order-1", 10, "a@b.com")
	assert.NoError(t, err)

	for i := 0; i < 20; i++ {
		check, err := always.CheckStatus(ctx, "order-1")
		assert.NoError(t, err)
		assert.True(t, check.IsPaid)

		check, err = never.CheckStatus(ctx, "order-1")
		assert.NoError(t, err)
		assert.False(t, check.IsPaid)
	}
}

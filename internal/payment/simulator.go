package payment

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"sync"
	"time"

	"storefront-service/internal/entity"
)

// Sample EMV payload rendered as the copyable PIX code. A real gateway
// returns a charge-specific code here.
const simulatedPixCode = "00020101021226880014br.gov.bcb.pix2566qrcodes-pix.efipay.com.br/v2/cobv/7d9f0335c7ab4d0a8f929e7e0b3acd295204000053039865802BR5925EMPRESA SIMULADA LTDA6009SAO PAULO62070503***63041D14"

const qrImageEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// Simulator stands in for the EFI Bank PIX API. Charges are kept in memory so
// repeated lookups within one checkout attempt see a stable payload, and the
// paid determination is an independent draw per status check.
type Simulator struct {
	mu      sync.Mutex
	charges map[string]*entity.PixCharge

	// draw returns a value in [0,1); a draw below probability means paid.
	// Injectable for tests.
	draw        func() float64
	probability float64

	now func() time.Time
}

type SimulatorOption func(*Simulator)

// WithDraw replaces the random source of the paid determination.
func WithDraw(draw func() float64) SimulatorOption {
	return func(s *Simulator) { s.draw = draw }
}

// WithProbability sets the per-check chance of the charge reporting paid.
func WithProbability(p float64) SimulatorOption {
	return func(s *Simulator) { s.probability = p }
}

func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		charges:     make(map[string]*entity.PixCharge),
		draw:        rand.Float64,
		probability: 0.3,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) CreatePayment(ctx context.Context, orderID string, total float64, email string) (*entity.PixCharge, error) {
	if total <= 0 {
		return nil, fmt.Errorf("payment total must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if charge, ok := s.charges[orderID]; ok {
		return charge, nil
	}

	charge := &entity.PixCharge{
		ID:       orderID,
		QRCodeID: fmt.Sprintf("pix-%d", s.now().UnixMilli()),
		PixURL:   fmt.Sprintf("pix://payment/%s", orderID),
		QRCode:   simulatedPixCode,
		QRImage:  qrImageEndpoint + "?size=200x200&data=" + url.QueryEscape(simulatedPixCode),
		Valor:    strconv.FormatFloat(total, 'f', 2, 64),
		Email:    email,
	}
	s.charges[orderID] = charge

	return charge, nil
}

func (s *Simulator) CheckStatus(ctx context.Context, orderID string) (entity.PaymentCheck, error) {
	s.mu.Lock()
	_, ok := s.charges[orderID]
	s.mu.Unlock()
	if !ok {
		return entity.PaymentCheck{}, fmt.Errorf("no charge for order %s", orderID)
	}

	isPaid := s.draw() < s.probability
	status := "ATIVA"
	if isPaid {
		status = "CONCLUIDA"
	}

	return entity.PaymentCheck{Status: status, IsPaid: isPaid}, nil
}

var _ Gateway = (*Simulator)(nil)

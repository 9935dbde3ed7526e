package simulator

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"retailsync/internal/client"
)

type Config struct {
	TerminalID string
	Currency   string
	MinAmount  float64
	MaxAmount  float64
	Count      int
	Interval   time.Duration
}

type Sender interface {
	SendEvent(ctx context.Context, event client.EventRequest) (*client.EventResponse, error)
}

// Simulator plays a single terminal posting sale events.
type Simulator struct {
	cfg    Config
	sender Sender
	rnd    *rand.Rand
	out    io.Writer
}

func New(cfg Config, sender Sender, rnd *rand.Rand, out io.Writer) (*Simulator, error) {
	if cfg.TerminalID == "" {
		return nil, fmt.Errorf("terminal id is required")
	}
	if cfg.MinAmount > cfg.MaxAmount {
		return nil, fmt.Errorf("min amount %.2f exceeds max amount %.2f", cfg.MinAmount, cfg.MaxAmount)
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must not be negative")
	}
	return &Simulator{cfg: cfg, sender: sender, rnd: rnd, out: out}, nil
}

// NextEvent builds a payload with a fresh receipt id and an amount drawn
// uniformly from [MinAmount, MaxAmount], rounded to two decimals.
func (s *Simulator) NextEvent() client.EventRequest {
	amount := s.cfg.MinAmount + s.rnd.Float64()*(s.cfg.MaxAmount-s.cfg.MinAmount)
	return client.EventRequest{
		TerminalID: s.cfg.TerminalID,
		ReceiptID:  uuid.NewString(),
		Amount:     math.Round(amount*100) / 100,
		Currency:   s.cfg.Currency,
	}
}

// Run sends Count events, waiting Interval between them. A failed send is
// reported and does not stop the run. It returns the number of accepted
// events.
func (s *Simulator) Run(ctx context.Context) (int, error) {
	sent := 0
	for i := 0; i < s.cfg.Count; i++ {
		if i > 0 && s.cfg.Interval > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(s.cfg.Interval):
			}
		}

		resp, err := s.sender.SendEvent(ctx, s.NextEvent())
		if err != nil {
			fmt.Fprintf(s.out, "[ERROR] Failed to send event: %v\n", err)
			continue
		}
		sent++
		fmt.Fprintf(s.out, "[OK] Sent event: terminal=%s receipt=%s amount=%.2f status=%s\n",
			resp.TerminalID, resp.ReceiptID, resp.Amount, resp.Status)
	}
	return sent, nil
}

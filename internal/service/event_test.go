package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailsync/internal/database/dbtest"
	"retailsync/internal/metrics"
	"retailsync/internal/model"
)

var ctx = context.Background()

// stepClock advances by one second on every call so creation times are
// strictly increasing.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) *EventService {
	t.Helper()
	_, gw := dbtest.Open(t)
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewEventService(gw, metrics.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), clock)
}

func ptr[T any](v T) *T { return &v }

func input(terminal, receipt string, amount float64) EventInput {
	return EventInput{TerminalID: terminal, ReceiptID: receipt, Amount: ptr(amount)}
}

func TestIngest_DefaultsCurrencyAndStatus(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.Ingest(ctx, input("T1", "R1", 500.0))
	require.NoError(t, err)

	assert.NotZero(t, event.ID)
	assert.Equal(t, "T1", event.TerminalID)
	assert.Equal(t, "R1", event.ReceiptID)
	assert.Equal(t, 500.0, event.Amount)
	assert.Equal(t, "INR", event.Currency)
	assert.Equal(t, model.StatusPending, event.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 1, 0, time.UTC), event.CreatedAt)
}

func TestIngest_KeepsGivenCurrency(t *testing.T) {
	svc := newTestService(t)

	in := input("T1", "R1", 12.5)
	in.Currency = ptr("USD")
	event, err := svc.Ingest(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "USD", event.Currency)

	in.Currency = ptr("")
	event, err = svc.Ingest(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "INR", event.Currency)
}

func TestIngest_AssignsDistinctIDsAndAllowsDuplicateReceipts(t *testing.T) {
	svc := newTestService(t)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		event, err := svc.Ingest(ctx, input("T1", "SAME", 1))
		require.NoError(t, err)
		assert.False(t, seen[event.ID], "id %d reused", event.ID)
		seen[event.ID] = true
	}

	events, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestIngest_ZeroAmountIsPresent(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.Ingest(ctx, input("T1", "R1", 0))
	require.NoError(t, err)
	assert.Zero(t, event.Amount)
}

func TestIngest_ValidationFailuresDoNotReachStorage(t *testing.T) {
	svc := newTestService(t)

	cases := map[string]struct {
		in     EventInput
		fields []string
	}{
		"empty": {
			in:     EventInput{},
			fields: []string{"terminal_id", "receipt_id", "amount"},
		},
		"missing amount": {
			in:     EventInput{TerminalID: "T1", ReceiptID: "R1"},
			fields: []string{"amount"},
		},
		"long terminal": {
			in:     input(strings.Repeat("T", 51), "R1", 1),
			fields: []string{"terminal_id"},
		},
		"long currency": {
			in:     EventInput{TerminalID: "T1", ReceiptID: "R1", Amount: ptr(1.0), Currency: ptr("RUPEES-INDIA")},
			fields: []string{"currency"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, tc.in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTestService(t)

	for _, r := range []string{"R1", "R2", "R3"} {
		_, err := svc.Ingest(ctx, input("T1", r, 1))
		require.NoError(t, err)
	}

	events, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "R3", events[0].ReceiptID)
	assert.Equal(t, "R2", events[1].ReceiptID)
	assert.Equal(t, "R1", events[2].ReceiptID)
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].CreatedAt.After(events[i].CreatedAt))
	}
}

func TestList_StatusFilter(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Ingest(ctx, input("T1", "R1", 1))
	require.NoError(t, err)
	_, err = svc.SyncPending(ctx)
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, input("T1", "R2", 2))
	require.NoError(t, err)

	for _, filter := range []string{"processed", "PROCESSED", "Processed"} {
		events, err := svc.List(ctx, filter)
		require.NoError(t, err)
		require.Len(t, events, 1, filter)
		assert.Equal(t, "R1", events[0].ReceiptID)
		assert.Equal(t, model.StatusProcessed, events[0].Status)
	}

	events, err := svc.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "R2", events[0].ReceiptID)

	events, err = svc.List(ctx, "archived")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestList_EmptyStore(t *testing.T) {
	svc := newTestService(t)

	events, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestCountsAndSync_Scenario(t *testing.T) {
	svc := newTestService(t)

	for _, r := range []string{"R1", "R2", "R3"} {
		_, err := svc.Ingest(ctx, input("T1", r, 10))
		require.NoError(t, err)
	}

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.EventCounts{Total: 3, Pending: 3, Processed: 0}, counts)

	n, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	counts, err = svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.EventCounts{Total: 3, Pending: 0, Processed: 3}, counts)
	assert.Equal(t, counts.Total, counts.Pending+counts.Processed)

	n, err = svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_OnlyTouchesPending(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Ingest(ctx, input("T1", "R1", 1))
	require.NoError(t, err)
	_, err = svc.SyncPending(ctx)
	require.NoError(t, err)

	for _, r := range []string{"R2", "R3"} {
		_, err := svc.Ingest(ctx, input("T1", r, 1))
		require.NoError(t, err)
	}

	n, err := svc.SyncPending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.EventCounts{Total: 3, Pending: 0, Processed: 3}, counts)
}

func TestOperations_FailOnCancelledContext(t *testing.T) {
	svc := newTestService(t)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err := svc.Ingest(cancelled, input("T1", "R1", 1))
	assert.Error(t, err)
	_, err = svc.List(cancelled, "")
	assert.Error(t, err)
	_, err = svc.Counts(cancelled)
	assert.Error(t, err)
	_, err = svc.SyncPending(cancelled)
	assert.Error(t, err)
}

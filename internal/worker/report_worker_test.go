package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"finlytics/internal/amqp"
	"finlytics/internal/core"
)

type fakeGenerator struct {
	calls  int
	asOf   []time.Time
	report core.Report
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, now time.Time, _ bool) (core.Report, error) {
	g.calls++
	g.asOf = append(g.asOf, now)
	return g.report, g.err
}

var requestedAt = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func TestReportWorker_HandleReportRequest(t *testing.T) {
	gen := &fakeGenerator{report: core.Report{ID: 7, Title: "Monthly Snapshot - Mar 2024"}}
	w := NewReportWorker(gen)
	msg := amqp.NewReportRequestMessage(requestedAt, false)

	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportRequest() error = %v", err)
	}
	if gen.calls != 1 || !gen.asOf[0].Equal(requestedAt) {
		t.Errorf("Generate() calls = %d, asOf = %v", gen.calls, gen.asOf)
	}

	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportRequest() duplicate error = %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("Generate() calls after duplicate = %d, want 1", gen.calls)
	}
}

func TestReportWorker_ZeroRequestedAt(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{report: core.Report{ID: 1}}
	w := NewReportWorker(gen)
	w.now = func() time.Time { return now }

	msg := &amqp.ReportRequestMessage{MessageID: "m-1"}
	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportRequest() error = %v", err)
	}
	if !gen.asOf[0].Equal(now) {
		t.Errorf("Generate() asOf = %v, want %v", gen.asOf[0], now)
	}
}

func TestReportWorker_Failures(t *testing.T) {
	tests := []struct {
		name      string
		report    core.Report
		wantErr   bool
		wantCalls int
	}{
		{"nothing stored is retried", core.Report{}, true, 2},
		{"stored with failed export is not retried", core.Report{ID: 3}, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{report: tt.report, err: errors.New("boom")}
			w := NewReportWorker(gen)
			msg := amqp.NewReportRequestMessage(requestedAt, true)

			err := w.HandleReportRequest(context.Background(), msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleReportRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			_ = w.HandleReportRequest(context.Background(), msg)
			if gen.calls != tt.wantCalls {
				t.Errorf("Generate() calls = %d, want %d", gen.calls, tt.wantCalls)
			}
		})
	}
}

func TestReportWorker_Seen(t *testing.T) {
	w := NewReportWorker(&fakeGenerator{report: core.Report{ID: 1}})
	if n := w.Seen().CleanExpired(); n != 0 {
		t.Errorf("CleanExpired() = %d, want 0", n)
	}
}

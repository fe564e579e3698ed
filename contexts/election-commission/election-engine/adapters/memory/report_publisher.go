package memory

import (
	"context"
	"fmt"
	"sync"

	"madison/contexts/election-commission/election-engine/domain/entities"
	"madison/contexts/election-commission/election-engine/ports"
)

// ReportPublisher records published live reports in memory. It stands in for
// the chat-platform message sink during tests and local wiring.
type ReportPublisher struct {
	mu      sync.Mutex
	reports []entities.LiveReport
}

func NewReportPublisher() *ReportPublisher {
	return &ReportPublisher{}
}

func (p *ReportPublisher) PublishReport(_ context.Context, report entities.LiveReport, previousRef string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
	if previousRef != "" {
		return previousRef, nil
	}
	return fmt.Sprintf("report-%s-%d", report.ElectionID, len(p.reports)), nil
}

// Published returns a copy of every report published so far.
func (p *ReportPublisher) Published() []entities.LiveReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entities.LiveReport(nil), p.reports...)
}

var _ ports.ReportPublisher = (*ReportPublisher)(nil)

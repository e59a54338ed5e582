package pipeline

import (
	"context"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/integrity"
)

// Validate runs rules against g and records the verdicts under name.
func (p *Pipeline) Validate(ctx context.Context, name string, g *graph.Graph, rules []integrity.Rule) (*integrity.Report, error) {
	report, err := integrity.Run(ctx, name, g, rules)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordReport(report)
	if v := report.Violated(); len(v) > 0 {
		p.log.Info("integrity rules violated", "cube", name, "violated", len(v))
	}
	for _, r := range report.Failed() {
		p.log.Warn("integrity rule failed", "cube", name, "rule", r.ID, "error", r.Error)
	}
	return report, nil
}

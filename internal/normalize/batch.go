package normalize

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finlens/internal/payload"
	"github.com/seenimoa/finlens/pkg/models"
)

// Result is the outcome of normalizing every report of one analysis result.
type Result struct {
	RunID        string                         `json:"run_id"`
	DocumentType string                         `json:"document_type,omitempty"`
	CompanyName  string                         `json:"company_name"`
	Records      map[string]models.ReportRecord `json:"records"`
}

// Names returns the record names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r.Records))
	for k := range r.Records {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Batch normalizes each report of res concurrently. A malformed report only
// affects its own record; the returned error is non-nil only when ctx is
// cancelled before every report finished.
func (n *Normalizer) Batch(ctx context.Context, res payload.Result) (Result, error) {
	start := time.Now()
	base := ContextOf(res)
	out := Result{
		RunID:        uuid.New().String(),
		DocumentType: res.DocumentType,
		CompanyName:  base.CompanyName,
		Records:      make(map[string]models.ReportRecord, len(res.Reports)),
	}
	if out.CompanyName == "" {
		out.CompanyName = n.opts.DefaultCompany
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.opts.Concurrency)

	for _, name := range res.Names() {
		name := name
		raw := res.Reports[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := n.NormalizeReport(name, raw, base)
			mu.Lock()
			out.Records[name] = rec
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		n.log.Warn().Err(err).Str("run_id", out.RunID).Msg("batch interrupted")
		return out, err
	}

	n.log.Info().
		Str("run_id", out.RunID).
		Str("document_type", out.DocumentType).
		Int("reports", len(out.Records)).
		Dur("duration", time.Since(start)).
		Msg("batch normalized")
	return out, nil
}

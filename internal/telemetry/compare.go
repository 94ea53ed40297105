package telemetry

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/photo-telemetry/internal/diagnose"
	"github.com/ironsheep/photo-telemetry/internal/stats"
)

// Comparison contrasts two states of the same photograph.
type Comparison struct {
	Original  *Telemetry `json:"original"`
	Processed *Telemetry `json:"processed"`

	// Diff is the pixel-level difference over the common area.
	Diff *stats.DiffResult `json:"diff"`

	// ScoreDelta is Processed.GradingScore minus Original.GradingScore.
	ScoreDelta int `json:"score_delta"`

	// Resolved lists finding codes present in Original but not Processed;
	// Introduced lists the reverse. Both keep rule order.
	Resolved   []diagnose.Code `json:"resolved"`
	Introduced []diagnose.Code `json:"introduced"`
}

// Compare analyses original and processed concurrently and diffs them.
//
// The two analyses share no state. The first error cancels ctx for the other
// and is returned; a context already cancelled on entry returns ctx.Err().
func Compare(ctx context.Context, original, processed image.Image, opts Options) (*Comparison, error) {
	g, ctx := errgroup.WithContext(ctx)

	var a, b *Telemetry
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := Analyze(original, opts)
		if err != nil {
			return fmt.Errorf("original: %w", err)
		}
		a = t
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := Analyze(processed, opts)
		if err != nil {
			return fmt.Errorf("processed: %w", err)
		}
		b = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	diff, err := stats.Compare(original, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to diff images: %w", err)
	}

	return &Comparison{
		Original:   a,
		Processed:  b,
		Diff:       diff,
		ScoreDelta: b.GradingScore - a.GradingScore,
		Resolved:   missing(a.Findings, b),
		Introduced: missing(b.Findings, a),
	}, nil
}

// missing returns the codes in from that other does not raise.
func missing(from []diagnose.Finding, other *Telemetry) []diagnose.Code {
	out := []diagnose.Code{}
	for _, f := range from {
		if !other.Has(f.Code) {
			out = append(out, f.Code)
		}
	}
	return out
}

package progress

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
)

// SpinnerSource shows a spinner while a remote price source is read. The
// spinner stays silent when w is not a terminal.
type SpinnerSource struct {
	inner   usecase.PriceSource
	spinner *spinner.Spinner
}

// NewSpinnerSource wraps inner with a spinner writing to w
func NewSpinnerSource(inner usecase.PriceSource, w io.Writer) *SpinnerSource {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.HideCursor = false

	return &SpinnerSource{
		inner:   inner,
		spinner: s,
	}
}

// LatestRound reads the round from the wrapped source
func (s *SpinnerSource) LatestRound(ctx context.Context, source common.Address) (*models.Round, error) {
	s.spinner.Suffix = " " + color.New(color.FgCyan).Sprintf("Reading price feed %s", source.Hex())
	s.spinner.Start()
	defer s.spinner.Stop()

	return s.inner.LatestRound(ctx, source)
}

// Ensure SpinnerSource implements PriceSource
var _ usecase.PriceSource = (*SpinnerSource)(nil)

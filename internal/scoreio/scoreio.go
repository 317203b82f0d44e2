// Package scoreio writes the per-episode score table that the outer
// episode loop emits: one row per episode with that episode's score and
// the running average over all episodes seen so far.
package scoreio

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// columnWidth mirrors the original's fixed std::setw(PRINT_WIDTH) column
// width.
const columnWidth = 12

// Writer renders the score table to an underlying io.Writer, optionally
// colorizing the average column when it is ahead of / behind its
// previous value. Columns are padded to a fixed width directly (rather
// than through text/tabwriter) because the ANSI escapes termenv emits
// would otherwise be counted as visible characters and throw off
// tabwriter's own padding.
type Writer struct {
	w        io.Writer
	out      *termenv.Output
	colorize bool

	avg         float64
	lastAvg     float64
	haveLastAvg bool
}

// New constructs a Writer. When colorize is true, the average column is
// rendered green when it improved over the previous row and red when it
// fell, using termenv's profile-aware ANSI output (degrading gracefully
// to plain text on a non-terminal or NO_COLOR environment).
func New(w io.Writer, colorize bool) *Writer {
	return &Writer{w: w, out: termenv.NewOutput(w), colorize: colorize}
}

// WriteHeader writes the column header line, bolded when colorize is set.
func (wr *Writer) WriteHeader() error {
	header := fmt.Sprintf("%-*s%-*s%-*s", columnWidth, "Episode", columnWidth, "Score", columnWidth, "Average")
	if wr.colorize {
		header = wr.out.String(header).Bold().String()
	}
	_, err := fmt.Fprintln(wr.w, header)
	return err
}

// WriteEpisode records episode's score, updates the running average and
// writes the resulting row. episode is the 1-based episode number, as
// the incremental-average formula divides by it directly.
func (wr *Writer) WriteEpisode(episode int, score float64) error {
	wr.avg = wr.avg + (1.0/float64(episode))*(score-wr.avg)

	avgCell := wr.padCell(fmt.Sprintf("%g", wr.avg))
	if wr.colorize {
		avgCell = wr.colorizedAverage()
	}
	wr.haveLastAvg = true
	wr.lastAvg = wr.avg

	episodeCell := wr.padCell(fmt.Sprintf("%d", episode))
	scoreCell := wr.padCell(fmt.Sprintf("%g", score))

	_, err := fmt.Fprintf(wr.w, "%s%s%s\n", episodeCell, scoreCell, avgCell)
	return err
}

func (wr *Writer) padCell(s string) string {
	return fmt.Sprintf("%-*s", columnWidth, s)
}

// colorizedAverage pads the average cell to columnWidth BEFORE wrapping
// it in ANSI escapes, so the escapes never affect the visible width.
func (wr *Writer) colorizedAverage() string {
	padded := wr.padCell(fmt.Sprintf("%g", wr.avg))
	if !wr.haveLastAvg {
		return padded
	}
	s := wr.out.String(padded)
	switch {
	case wr.avg > wr.lastAvg:
		s = s.Foreground(wr.out.Color("2"))
	case wr.avg < wr.lastAvg:
		s = s.Foreground(wr.out.Color("1"))
	}
	return s.String()
}

// Average returns the running average over every episode written so far.
func (wr *Writer) Average() float64 { return wr.avg }

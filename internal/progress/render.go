package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb"
)

// TextFunc returns a Func that prints a single updating status line to w.
func TextFunc(w io.Writer) Func {
	return func(p Progress) {
		switch p.Phase {
		case PhaseCompress, PhaseDecompress:
			label := "[" + strings.ToUpper(p.Phase[:1]) + p.Phase[1:] + "]"
			if p.Total > 0 {
				fmt.Fprintf(w, "\r%s %s / %s (%.1f%%)",
					label, FormatBytes(p.Bytes), FormatBytes(p.Total), p.Percent())
			} else {
				fmt.Fprintf(w, "\r%s %s", label, FormatBytes(p.Bytes))
			}
		case PhaseDone:
			fmt.Fprintf(w, "\n[Done] %s in %s\n",
				FormatBytes(p.Bytes), FormatDuration(time.Since(p.StartTime)))
		case PhaseError:
			// The error itself is reported by the caller.
			fmt.Fprintf(w, "\n[Failed] after %s\n", FormatBytes(p.Bytes))
		}
	}
}

// Bar renders progress as a terminal bar.
type Bar struct {
	mu  sync.Mutex
	out io.Writer
	bar *pb.ProgressBar
}

// NewBar returns a Bar that draws to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Update is a Func.
func (b *Bar) Update(p Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch p.Phase {
	case PhaseCompress, PhaseDecompress:
		if b.bar == nil {
			b.bar = pb.New64(p.Total).SetUnits(pb.U_BYTES)
			b.bar.Output = b.out
			b.bar.ShowSpeed = true
			b.bar.Format("[#>-]")
			b.bar.Start()
		}
		b.bar.Set64(p.Bytes)
	case PhaseDone, PhaseError:
		if b.bar != nil {
			b.bar.Set64(p.Bytes)
			b.bar.Finish()
			b.bar = nil
		}
	}
}

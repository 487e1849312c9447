package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

const chainSeparator = " -> "
const timeLayout = "2006-01-02 15:04:05"

// Reporter formats findings on the output stream. Color use is per reporter
// state instead of a process wide toggle, so it can be disabled for one scan
// without affecting others.
type Reporter struct {
	out  io.Writer
	logw *writer

	red    *color.Color
	green  *color.Color
	yellow *color.Color
	bold   *color.Color
}

func NewReporter(out io.Writer, noColor bool, logw *writer) *Reporter {
	r := &Reporter{
		out:    out,
		logw:   logw,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}

	if noColor {
		r.red.DisableColor()
		r.green.DisableColor()
		r.yellow.DisableColor()
		r.bold.DisableColor()
	}

	return r
}

func (r *Reporter) Root(root string) {
	fmt.Fprintln(r.out, "Scanning:", root)

	if r.logw != nil {
		r.logw.WriteLine("Scanning: %s", root)
	}
}

// Finding emits one report line for a classified candidate. The first chain
// element is printed bold, the rest plain, joined root to leaf.
func (r *Reporter) Finding(ts time.Time, verdict Verdict, label string, sum string, chain []string) {
	stamp := ts.Format(timeLayout)

	first := r.bold.Sprint(chain[0])
	path := strings.Join(append([]string{first}, chain[1:]...), chainSeparator)
	plain := strings.Join(chain, chainSeparator)

	switch verdict {
	case VerdictVulnerable:
		fmt.Fprintf(r.out, "[%s] %s: %s [%s: %s]\n", stamp, r.red.Sprint("VULNERABLE"), path, sum, label)

		if r.logw != nil {
			r.logw.WriteLine("[%s] VULNERABLE: %s [%s: %s]", stamp, plain, sum, label)
		}
	case VerdictGood:
		fmt.Fprintf(r.out, "[%s] %s: %s [%s: %s]\n", stamp, r.green.Sprint("GOOD"), path, sum, label)

		if r.logw != nil {
			r.logw.WriteLine("[%s] GOOD: %s [%s: %s]", stamp, plain, sum, label)
		}
	default:
		fmt.Fprintf(r.out, "[%s] %s: MD5 not known for %s [%s]\n", stamp, r.yellow.Sprint("UNKNOWN"), path, sum)

		if r.logw != nil {
			r.logw.WriteLine("[%s] UNKNOWN: MD5 not known for %s [%s]", stamp, plain, sum)
		}
	}
}

// Summary prints the trailing summary block. Counters at zero are omitted.
func (r *Reporter) Summary(stats *Stats) {
	fmt.Fprintln(r.out, "\nSummary:")

	if n := stats.Vulnerable(); n > 0 {
		fmt.Fprintf(r.out, " Found %d vulnerable files\n", n)
	}

	if n := stats.Good(); n > 0 {
		fmt.Fprintf(r.out, " Found %d good files\n", n)
	}

	if n := stats.Unknown(); n > 0 {
		fmt.Fprintf(r.out, " Found %d unknown files\n", n)
	}

	if r.logw != nil {
		r.logw.WriteLine("summary: vulnerable=%d good=%d unknown=%d files=%d errors=%d",
			stats.Vulnerable(), stats.Good(), stats.Unknown(), stats.Files(), stats.Errors())
	}
}

func (r *Reporter) Aborted() {
	fmt.Fprintln(r.out, "\nAborted!")

	if r.logw != nil {
		r.logw.WriteLine("aborted")
	}
}

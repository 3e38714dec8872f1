// ColorStdoutWriter prints human-friendly, colorized result rows to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"manetsim/internal/config"
	"manetsim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var nodePalette = []string{colorRed, colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

func colorWhite() string { return "\x1b[37m" }

// ColorStdoutWriter prints result rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg        *config.Config
	out        io.Writer
	once       sync.Once
	nodeColors map[string]string
	colorIdx   int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:        cfg,
		out:        os.Stdout,
		nodeColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getNodeColor(node string) string {
	if c, ok := w.nodeColors[node]; ok {
		return c
	}
	c := nodePalette[w.colorIdx%len(nodePalette)]
	w.nodeColors[node] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Nodes:\t%d\n", w.cfg.Nodes)
	fmt.Fprintf(tw, "Area (m):\t%.0f x %.0f\n", w.cfg.AreaWidth, w.cfg.AreaHeight)
	fmt.Fprintf(tw, "Speed (m/s):\t%.1f - %.1f\n", w.cfg.MinSpeed, w.cfg.MaxSpeed)
	fmt.Fprintf(tw, "Spine:\t%.0f%% (%s)\n", w.cfg.SpinePercent, w.cfg.SpineStrategy)
	fmt.Fprintf(tw, "Channel Width (MHz):\t%d\n", w.cfg.ChannelWidthMHz)
	fmt.Fprintf(tw, "Environment:\t%s\n", w.cfg.Environment)
	fmt.Fprintf(tw, "Scenario:\t%s\n", w.cfg.Scenario)
	fmt.Fprintf(tw, "Sampling:\t%s\n", w.cfg.SamplingFreq)
	fmt.Fprintf(tw, "Warmup / Duration:\t%s / %s\n", w.cfg.WarmupTime, w.cfg.SimulationTime)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteMovement outputs a single movement row in colorized format.
func (w *ColorStdoutWriter) WriteMovement(row telemetry.MovementRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[t=%.1fs]%s ", colorGray, row.Time, colorReset)
	fmt.Fprintf(w.out, "%snode=%s%s ", w.getNodeColor(row.Node), row.Node, colorReset)
	fmt.Fprintf(w.out, "%spos=(%.2f,%.2f,%.2f)%s ", colorGreen, row.X, row.Y, row.Z, colorReset)
	fmt.Fprintf(w.out, "%sspd=%.2f%s\n", colorYellow, row.Speed, colorReset)
	return nil
}

// WriteConnectivity outputs a single connectivity row in colorized format.
func (w *ColorStdoutWriter) WriteConnectivity(row telemetry.ConnectivityRow) error {
	w.once.Do(w.printOverview)
	linkColor := colorRed
	if row.L2Link {
		linkColor = colorGreen
	}
	onlineColor := colorRed
	if row.Online {
		onlineColor = colorGreen
	}
	fmt.Fprintf(w.out, "%s[t=%.1fs]%s %sLINK%s %snode=%s%s %sl2_link=%t%s %sonline=%t%s\n",
		colorGray, row.Time, colorReset,
		colorBlue, colorReset,
		w.getNodeColor(row.Node), row.Node, colorReset,
		linkColor, row.L2Link, colorReset,
		onlineColor, row.Online, colorReset)
	return nil
}

// WritePacket outputs a single packet row in colorized format.
func (w *ColorStdoutWriter) WritePacket(row telemetry.PacketRow) error {
	w.once.Do(w.printOverview)
	dir := "SEND"
	dirColor := colorYellow
	if row.Received {
		dir = "RECV"
		dirColor = colorCyan
	}
	fmt.Fprintf(w.out, "%s[t=%.2fs]%s %s%s%s %snode=%s%s %suid=%d%s %ssize=%d%s\n",
		colorGray, row.Time, colorReset,
		dirColor, dir, colorReset,
		w.getNodeColor(row.Node), row.Node, colorReset,
		colorWhite(), row.UID, colorReset,
		colorMagenta, row.Size, colorReset)
	return nil
}

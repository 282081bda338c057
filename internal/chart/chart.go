// Package chart turns the price history into a two-axis line chart image.
package chart

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"CoinMonitor/internal/model"
)

// Backend is the chart rendering capability. Availability is probed once
// at startup; an unavailable backend degrades every chart request to an
// informational notice instead of an error.
type Backend interface {
	Available() bool
	Render(w io.Writer, history model.RecordSet) error
}

// Renderer writes the history chart to a fixed output file and gives the
// user visual feedback about the result.
type Renderer struct {
	backend Backend
	outPath string
}

// NewRenderer creates a Renderer persisting charts to outPath.
func NewRenderer(backend Backend, outPath string) *Renderer {
	return &Renderer{backend: backend, outPath: outPath}
}

// Render draws one line per symbol over the full history and saves the
// result as a PNG, overwriting any previous chart. An empty history is a
// notice, not an error, and produces no file. Informational output goes
// to out.
func (r *Renderer) Render(out io.Writer, history model.RecordSet) error {
	if !r.backend.Available() {
		fmt.Fprintln(out, "Chart rendering is not available. No image will be produced.")
		return nil
	}
	if len(history) == 0 {
		fmt.Fprintln(out, "No data to chart yet.")
		return nil
	}
	if distinctTimes(history) < 2 {
		fmt.Fprintln(out, "Need at least two samples to draw a line chart. Let the monitor run a little longer.")
		return nil
	}

	f, err := os.Create(r.outPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := r.backend.Render(f, history); err != nil {
		f.Close()
		os.Remove(r.outPath)
		return fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file: %w", err)
	}

	path := r.outPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprintf(out, "\n✅ Chart saved to: %s\n", path)
	r.redisplay(out, path)
	return nil
}

// redisplay loads the freshly saved image back and presents it: through
// the platform viewer when a display surface exists, otherwise as a
// decoded-size confirmation with an open hint for headless sessions.
func (r *Renderer) redisplay(out io.Writer, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(out, "Could not reload the saved chart: %v\n", err)
		return
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(out, "Could not reload the saved chart: %v\n", err)
		return
	}
	bounds := img.Bounds()
	fmt.Fprintf(out, "📈 %dx%d chart ready.\n", bounds.Dx(), bounds.Dy())

	if viewer := viewerCommand(); viewer != "" {
		cmd := exec.Command(viewer, path)
		if err := cmd.Start(); err == nil {
			go cmd.Wait()
			return
		}
	}
	fmt.Fprintf(out, "💡 Open it with: xdg-open %s\n\n", path)
}

// viewerCommand returns the platform image viewer, or "" when no
// interactive display surface is available.
func viewerCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return ""
	default:
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return ""
		}
		if p, err := exec.LookPath("xdg-open"); err == nil {
			return p
		}
		return ""
	}
}

// distinctTimes counts distinct timestamps across the whole set. A line
// chart needs at least two.
func distinctTimes(history model.RecordSet) int {
	seen := make(map[int64]bool, len(history))
	for _, obs := range history {
		seen[obs.Time.UnixNano()] = true
	}
	return len(seen)
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/render"
)

// Renderer writes dashboards to disk
type Renderer struct {
	includeFooter bool
	now           func() time.Time
}

// NewRenderer creates a renderer; the footer stamps the generation time
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, now: time.Now}
}

// RenderJSON writes the dashboard document, charts encoded as Vega-Lite
func (r *Renderer) RenderJSON(d *Dashboard, path string) error {
	doc, err := d.Document()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderPNG writes one PNG per chart into dir and returns the file paths in page order
func (r *Renderer) RenderPNG(d *Dashboard, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var paths []string
	for _, spec := range d.Charts() {
		path := filepath.Join(dir, spec.Name+".png")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", path, err)
		}
		err = render.PNG(f, spec)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderMarkdown writes a summary of each chart. When images is true the
// PNG files written by RenderPNG next to path are linked in.
func (r *Renderer) RenderMarkdown(d *Dashboard, path string, images bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "- Years: %d to %d (data covers %d to %d)\n", d.Params.Start, d.Params.End, d.Bounds.Min, d.Bounds.Max)
	fmt.Fprintf(&b, "- Single year: %d\n", d.Params.Year)
	fmt.Fprintf(&b, "- Demographic groups: %s\n", joinOrNone(d.Params.Races))
	fmt.Fprintf(&b, "- Sex group: %s\n", d.Params.Sex)
	fmt.Fprintf(&b, "- Distribution ages: %s\n", joinOrNone(d.Params.DistAges))
	fmt.Fprintf(&b, "- Distribution sexes: %s\n", joinOrNone(d.Params.DistSexes))
	fmt.Fprintf(&b, "- Distribution groups: %s\n\n", joinOrNone(d.Params.DistRaces))

	for _, s := range d.Sections {
		fmt.Fprintf(&b, "<a id=\"%s\"></a>\n\n## %s\n\n", s.Anchor, s.Header)
		for _, line := range s.Text {
			fmt.Fprintf(&b, "%s\n", line)
		}
		b.WriteString("\n")
		for _, c := range s.Charts {
			fmt.Fprintf(&b, "### %s\n\n", c.Title)
			if images {
				fmt.Fprintf(&b, "![%s](%s.png)\n\n", c.Title, c.Name)
			}
			fmt.Fprintf(&b, "%d data points\n\n", len(c.Data))
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated %s\n", r.now().UTC().Format(time.RFC3339))
	}
	return writeFile(path, []byte(b.String()))
}

// RenderSummary prints a one-screen overview to w
func (r *Renderer) RenderSummary(w io.Writer, d *Dashboard) {
	fmt.Fprintf(w, "\n%s\n", d.Title)
	fmt.Fprintf(w, "Rows loaded: %d, years %d-%d\n", d.Rows, d.Params.Start, d.Params.End)
	for _, c := range d.Charts() {
		fmt.Fprintf(w, "  %-24s %6d points\n", c.Name, len(c.Data))
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

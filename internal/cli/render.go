package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
)

var (
	startYear     int
	endYear       int
	singleYear    int
	races         []string
	sex           string
	distAges      []string
	distSexes     []string
	distRaces     []string
	outDir        string
	writePNG      bool
	renderTimeout time.Duration
	noFooter      bool
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard once to files",
	Long: `Render runs a single render pass and writes the result to disk:
- dashboard.json with every chart as a Vega-Lite specification
- dashboard.md with the section texts and per-chart point counts
- one PNG per chart when --png is set

Unset widgets take their defaults: the full year range, every race present,
Both sexes, all ages and subgroups in the distribution section. Pass an empty
value (e.g. --race "") to deselect every option.

Example:
  cirrhosis render
  cirrhosis render --start 2000 --end 2010 --year 2005 --race Black,White --sex Female
  cirrhosis render --dist-age "45 to 49,50 to 54" --png --out-dir ./snapshot`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&startYear, "start", 0, "first year of the range (default: earliest year in data)")
	renderCmd.Flags().IntVar(&endYear, "end", 0, "last year of the range (default: latest year in data)")
	renderCmd.Flags().IntVar(&singleYear, "year", 0, "year for the age-group chart (default: range start)")
	renderCmd.Flags().StringSliceVar(&races, "race", nil, "demographic groups for the age-group chart")
	renderCmd.Flags().StringVar(&sex, "sex", "", "sex group for the age-group chart (Both, Male, Female)")
	renderCmd.Flags().StringSliceVar(&distAges, "dist-age", nil, "age groups for the distribution comparison")
	renderCmd.Flags().StringSliceVar(&distSexes, "dist-sex", nil, "sexes for the distribution comparison")
	renderCmd.Flags().StringSliceVar(&distRaces, "dist-race", nil, "demographic groups for the distribution comparison")

	renderCmd.Flags().StringVar(&outDir, "out-dir", "./cirrhosis-dashboard", "output directory")
	renderCmd.Flags().BoolVar(&writePNG, "png", false, "also write a PNG snapshot of each chart")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 2*time.Minute, "total timeout including the download")
	renderCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	addFetchFlags(renderCmd)
}

// renderParams builds widget values from flags; unchanged list flags stay nil
func renderParams(cmd *cobra.Command) pipeline.Params {
	flags := cmd.Flags()
	params := pipeline.Params{
		Start: startYear,
		End:   endYear,
		Year:  singleYear,
		Sex:   sex,
	}
	if flags.Changed("race") {
		params.Races = nonNil(races)
	}
	if flags.Changed("dist-age") {
		params.DistAges = nonNil(distAges)
	}
	if flags.Changed("dist-sex") {
		params.DistSexes = nonNil(distSexes)
	}
	if flags.Changed("dist-race") {
		params.DistRaces = nonNil(distRaces)
	}
	return params
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFetchFlags(cmd, cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Loading %s...\n", cfg.Source)

	p := pipeline.NewPipeline(cfg, logger)
	d, err := p.Render(ctx, renderParams(cmd))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	renderer := pipeline.NewRenderer(!noFooter)
	jsonPath := filepath.Join(outDir, "dashboard.json")
	if err := renderer.RenderJSON(d, jsonPath); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", jsonPath)

	if writePNG {
		paths, err := renderer.RenderPNG(d, outDir)
		if err != nil {
			return fmt.Errorf("failed to write PNG: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ PNG snapshots: %d files\n", len(paths))
	}

	mdPath := filepath.Join(outDir, "dashboard.md")
	if err := renderer.RenderMarkdown(d, mdPath, writePNG); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", mdPath)

	renderer.RenderSummary(os.Stderr, d)
	return nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/config"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// renderOpts holds the flags of the render command. Style flags override the
// values from --config only when set.
type renderOpts struct {
	output       string
	formats      string
	configPath   string
	width        float64
	height       float64
	strict       bool
	numberFormat string
	title        string
	background   string
	scale        float64
	noLabels     bool
	noCache      bool
	refresh      bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Render a flow graph as a Sankey diagram",
		Long: `Render a JSON or YAML flow graph.

Each requested format is written next to the input, or to --output. With a
single format --output is the file name; with several it is the base name
and each format adds its own extension.`,
		Example: `  sankey render budget.json
  sankey render energy.yaml -f svg,png --width 1920 --height 1080
  sankey render budget.json -f png,graphviz-png --no-labels
  sankey render budget.json -c style.toml -o out/budget`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several)")
	f.StringVarP(&opts.formats, "format", "f", "", "output formats: "+strings.Join(config.Formats, ", ")+" (comma-separated)")
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML style file")
	f.Float64Var(&opts.width, "width", config.DefaultWidth, "canvas width")
	f.Float64Var(&opts.height, "height", config.DefaultHeight, "canvas height")
	f.BoolVar(&opts.strict, "strict", false, "fail when edges overdraw a node's fixed value")
	f.StringVar(&opts.numberFormat, "number-format", "", `printf template for values, e.g. "%.1f kWh"`)
	f.StringVar(&opts.title, "title", "", "SVG document title")
	f.StringVar(&opts.background, "background", "", "background color, e.g. #fff")
	f.Float64Var(&opts.scale, "scale", config.DefaultPNGScale, "PNG pixel density")
	f.BoolVar(&opts.noLabels, "no-labels", false, "leave node labels out of PNG output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout and render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	prog := newProgress(loggerFromContext(ctx))

	style, err := renderStyle(cmd, opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read graph: %w", err)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+filepath.Base(path))
	spinner.Start()
	res, err := runner.Execute(ctx, data, graphio.DetectFormat(path), pipeline.Options{
		Config:  style,
		Source:  path,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(path, opts.output, style.Formats)
	for _, format := range style.Formats {
		out := paths[format]
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(out, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %s", path)
	printStats(w, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayerCount, res.CacheInfo.RenderHit)
	for _, format := range style.Formats {
		printFile(w, paths[format])
	}
	prog.done("Rendered " + filepath.Base(path))
	return nil
}

// renderStyle loads --config and applies the flags the user set on top.
func renderStyle(cmd *cobra.Command, opts *renderOpts) (config.Config, error) {
	style, err := loadStyle(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("width") {
		style.Width = opts.width
	}
	if f.Changed("height") {
		style.Height = opts.height
	}
	if f.Changed("strict") {
		style.Strict = opts.strict
	}
	if f.Changed("number-format") {
		style.NumberFormat = opts.numberFormat
	}
	if f.Changed("title") {
		style.Title = opts.title
	}
	if f.Changed("background") {
		style.Background = opts.background
	}
	if f.Changed("scale") {
		style.PNGScale = opts.scale
	}
	if f.Changed("no-labels") {
		style.NoLabels = opts.noLabels
	}
	if formats := parseFormats(opts.formats); len(formats) > 0 {
		style.Formats = formats
	}
	return style, style.Validate()
}

// outputPaths maps each format to the file it is written to. The input file
// is never a target.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, format := range formats {
		out := base + pipeline.Extension(format)
		if out == input {
			out = base + ".layout" + pipeline.Extension(format)
		}
		paths[format] = out
	}
	return paths
}

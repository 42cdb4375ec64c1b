package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citruspi/badger/pkg/badge"
	"github.com/citruspi/badger/pkg/errors"
)

// renderParams are the badge fields exposed as render flags. Flag names are
// the query parameter names with dashes.
var renderParams = []struct {
	param string
	usage string
}{
	{badge.ParamTitle, "title segment text"},
	{badge.ParamText, "text segment (omitted when unset)"},
	{badge.ParamTitleColour, "title colour (default " + badge.DefaultTitleColour + ")"},
	{badge.ParamTitleBgColour, "title background (default " + badge.DefaultTitleBgColour + ")"},
	{badge.ParamTextColour, "text colour (default " + badge.DefaultTextColour + ")"},
	{badge.ParamTextBgColour, "text background (default " + badge.DefaultTextBgColour + ")"},
	{badge.ParamFontFace, "font face (default: first in dataset)"},
	{badge.ParamFontSize, "font size (default: first in dataset)"},
	{badge.ParamPaddingHorizontal, "horizontal padding (default size/2)"},
	{badge.ParamPaddingVertical, "vertical padding (default size/8)"},
	{badge.ParamIcon, "icon key"},
	{badge.ParamIconColour, "icon colour (default: title colour)"},
	{badge.ParamIconScale, "icon size relative to text height (default " + badge.DefaultIconScale + ")"},
}

func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

// renderOpts holds the render command's own flags.
type renderOpts struct {
	output        string
	renderDataset string
	iconsDir      string
}

// renderCommand creates the command that renders one badge.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [title] [text]",
		Short: "Render a single badge",
		Long: `Render a single badge to a file or stdout.

Flags mirror the query parameters of /v1/badge.svg. If rendering fails the
error badge is written instead and the command exits non-zero.`,
		Example: `  badger render build passing -o build.svg
  badger render --title stars --icon github --text 1.2k --title-bg-colour "#24292e"`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := renderQuery(cmd, args)
			if err != nil {
				return err
			}

			dataset, iconsDir := c.Config.RenderDataset, c.Config.IconsDir
			if cmd.Flags().Changed("render-dataset") {
				dataset = opts.renderDataset
			}
			if cmd.Flags().Changed("icons") {
				iconsDir = opts.iconsDir
			}
			f, err := c.newFactory(dataset, iconsDir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			req, renderErr := badge.FromQuery(q)
			var svg string
			if renderErr == nil {
				svg, renderErr = f.Render(ctx, req)
			}
			if renderErr != nil {
				svg = f.RenderError(ctx, renderErr)
			}

			if err := writeOutput(opts.output, cmd.OutOrStdout(), svg); err != nil {
				return err
			}
			if renderErr != nil {
				return renderErr
			}
			if opts.output != "" && opts.output != "-" {
				printSuccess("Rendered badge")
				printFile(opts.output)
			}
			return nil
		},
	}

	for _, p := range renderParams {
		cmd.Flags().String(flagName(p.param), "", p.usage)
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.renderDataset, "render-dataset", "r", "", "metrics dataset JSON (default: embedded Go fonts)")
	cmd.Flags().StringVar(&opts.iconsDir, "icons", "", "directory of extra SVG icons")

	return cmd
}

// renderQuery collects the set badge flags, plus the positional title and
// text, into query parameters.
func renderQuery(cmd *cobra.Command, args []string) (url.Values, error) {
	q := url.Values{}
	if len(args) > 0 {
		q.Set(badge.ParamTitle, args[0])
	}
	if len(args) > 1 {
		q.Set(badge.ParamText, args[1])
	}

	for _, p := range renderParams {
		name := flagName(p.param)
		if !cmd.Flags().Changed(name) {
			continue
		}
		if q.Has(p.param) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s given both as argument and --%s", p.param, name)
		}
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		q.Set(p.param, v)
	}
	return q, nil
}

func writeOutput(path string, stdout io.Writer, svg string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(stdout, svg)
		return err
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

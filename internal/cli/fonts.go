package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citruspi/badger/pkg/badge"
	"github.com/citruspi/badger/pkg/fonts"
)

// fontsCommand lists the faces and sizes a dataset supports.
func (c *CLI) fontsCommand() *cobra.Command {
	var renderDataset string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the font faces and sizes of a metrics dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.RenderDataset
			if cmd.Flags().Changed("render-dataset") {
				path = renderDataset
			}

			ds, err := loadDataSet(path)
			if err != nil {
				return err
			}
			reg, err := badge.NewRegistry(ds.Config.Font)
			if err != nil {
				return err
			}

			for _, face := range reg.Faces() {
				var measured []string
				for _, size := range reg.Sizes() {
					if ds.Measured(string(face), string(size)) {
						measured = append(measured, string(size))
					}
				}
				name := string(face)
				if face == reg.DefaultFace() {
					name = StyleHighlight.Render(name)
				}
				printKeyValue(name, strings.Join(measured, " "))
				printDetail("font-family: %s", fonts.CSSFamily(string(face)))
			}
			printNewline()
			printInfo("Default: %s %spx", reg.DefaultFace(), reg.DefaultSize())
			return nil
		},
	}

	cmd.Flags().StringVarP(&renderDataset, "render-dataset", "r", "", "metrics dataset JSON (default: embedded Go fonts)")

	return cmd
}

// iconsCommand lists the icon catalog keys.
func (c *CLI) iconsCommand() *cobra.Command {
	var iconsDir string

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List the icon catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.IconsDir
			if cmd.Flags().Changed("icons") {
				dir = iconsDir
			}

			catalog, err := loadCatalog(dir)
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				icon, _ := catalog.Lookup(name)
				printKeyValue(name, icon.Title)
			}
			printNewline()
			printInfo("%d icons", catalog.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&iconsDir, "icons", "", "directory of extra SVG icons")

	return cmd
}

func joinFaces(faces []badge.FontFace) string {
	names := make([]string, len(faces))
	for i, f := range faces {
		names[i] = fmt.Sprintf("%q", string(f))
	}
	return strings.Join(names, ", ")
}

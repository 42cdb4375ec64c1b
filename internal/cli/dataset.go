package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/fonts"
	"github.com/citruspi/badger/pkg/metrics"
)

// datasetCommand groups the metrics dataset subcommands.
func (c *CLI) datasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage glyph metrics datasets",
	}

	cmd.AddCommand(c.datasetBuildCommand())

	return cmd
}

type datasetBuildOpts struct {
	faces   []string
	sizes   []string
	charset string
	output  string
}

// datasetBuildCommand creates the "dataset build" subcommand.
func (c *CLI) datasetBuildCommand() *cobra.Command {
	var opts datasetBuildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Measure fonts into a metrics dataset",
		Long: `Measure fonts into a metrics dataset.

Each --face is NAME=PATH, or just PATH to name the face after the file.
TTF, OTF, WOFF and WOFF2 files are accepted. Without --face the embedded Go
fonts are measured. The first face and size become the badge defaults.`,
		Example: `  badger dataset build -o metrics.json
  badger dataset build --face Inter=Inter-Regular.woff2 --sizes 11,14 -o metrics.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			sources, err := fontSources(opts.faces)
			if err != nil {
				return err
			}
			for _, src := range sources {
				logger.Debug("measuring face", "face", src.Name, "bytes", len(src.Data))
			}

			ds, err := metrics.Build(sources, opts.sizes, opts.charset)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Measured %d faces at %d sizes", len(sources), len(ds.Config.Font.Sizes)))

			if err := writeDataSet(opts.output, ds); err != nil {
				return err
			}

			printSuccess("Built metrics dataset")
			printKeyValue("faces", strings.Join(ds.Config.Font.Faces, ", "))
			printKeyValue("sizes", strings.Join(ds.Config.Font.Sizes, ", "))
			printFile(opts.output)
			printNextStep("Serve it", appName+" server --render-dataset "+opts.output)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.faces, "face", nil, "font face as NAME=PATH or PATH (repeatable)")
	cmd.Flags().StringSliceVar(&opts.sizes, "sizes", metrics.DefaultSizes, "font sizes in pixels")
	cmd.Flags().StringVar(&opts.charset, "charset", "", "characters to measure (default printable ASCII and Latin-1)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "metrics.json", "output file")

	return cmd
}

// fontSources reads the --face arguments, or returns the embedded fonts
// when there are none.
func fontSources(faces []string) ([]metrics.Source, error) {
	if len(faces) == 0 {
		var sources []metrics.Source
		for _, name := range fonts.BuiltinFaces() {
			data, _ := fonts.Builtin(name)
			sources = append(sources, metrics.Source{Name: name, Data: data})
		}
		return sources, nil
	}

	sources := make([]metrics.Source, 0, len(faces))
	seen := make(map[string]bool, len(faces))
	for _, arg := range faces {
		name, path := parseFaceArg(arg)
		if name == "" || path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --face %q: want NAME=PATH", arg)
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "face %q given twice", name)
		}
		seen[name] = true

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read font %s", path)
		}
		sources = append(sources, metrics.Source{Name: name, Data: data})
	}
	return sources, nil
}

// parseFaceArg splits NAME=PATH. A bare PATH is named after its file.
func parseFaceArg(arg string) (name, path string) {
	if name, path, ok := strings.Cut(arg, "="); ok {
		return strings.TrimSpace(name), strings.TrimSpace(path)
	}
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base)), arg
}

func writeDataSet(path string, ds *metrics.DataSet) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := ds.Write(f); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/citruspi/badger/internal/server"
	"github.com/citruspi/badger/pkg/observability"
)

// serverOpts holds the command-line overrides for the server command.
type serverOpts struct {
	bind          string
	renderDataset string
	iconsDir      string
}

// serverCommand creates the command that serves badges over HTTP.
func (c *CLI) serverCommand() *cobra.Command {
	var opts serverOpts

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve badges over HTTP",
		Long: `Serve badges over HTTP.

Routes:
  /              index page
  /v1/badge.svg  render a badge from query parameters
  /metrics       prometheus metrics
  /healthz       liveness probe

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.Config
			flags := cmd.Flags()
			if flags.Changed("bind") {
				cfg.Bind = opts.bind
			}
			if flags.Changed("render-dataset") {
				cfg.RenderDataset = opts.renderDataset
			}
			if flags.Changed("icons") {
				cfg.IconsDir = opts.iconsDir
			}
			return c.runServer(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.bind, "bind", "b", defaultBind, "listen address")
	cmd.Flags().StringVarP(&opts.renderDataset, "render-dataset", "r", "", "metrics dataset JSON (default: embedded Go fonts)")
	cmd.Flags().StringVar(&opts.iconsDir, "icons", "", "directory of extra SVG icons")

	return cmd
}

func (c *CLI) runServer(cmd *cobra.Command, cfg Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	factory, err := c.newFactory(cfg.RenderDataset, cfg.IconsDir)
	if err != nil {
		return err
	}

	m := server.NewMetrics()
	observability.SetRenderHooks(m)
	defer observability.Reset()

	srv, err := server.New(factory, m, logger)
	if err != nil {
		return err
	}

	httpSrv := server.NewHTTPServer(cfg.Bind, srv.Handler(), cfg.HTTP.Timeouts())
	reg := factory.Registry()
	printSuccess("Listening on %s", StyleLink.Render("http://"+cfg.Bind))
	printKeyValue("fonts", joinFaces(reg.Faces()))
	printKeyValue("default", string(reg.DefaultFace())+" "+string(reg.DefaultSize())+"px")
	printKeyValue("icons", StyleNumber.Render(strconv.Itoa(len(factory.Icons().Names()))))

	if err := httpSrv.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/buttonkit/internal/server"
	"github.com/conneroisu/buttonkit/internal/stories"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the preview server: a gallery of every story at /, a render endpoint
driven by query parameters at /render, the stylesheet at /styles.css and a
JSON catalogue at /api/stories. Pages reload when the story file changes.

Examples:
  buttonkit serve
  buttonkit serve --port 8080 --watch=false
  BUTTONKIT_SERVER_PORT=9000 buttonkit serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root)
		},
	}

	f := cmd.Flags()
	f.IntP("port", "p", 0, "Port to serve on (default 6006)")
	f.String("host", "", "Host to bind to (default localhost)")
	f.Bool("watch", true, "Reload stories when the file changes")
	f.StringSlice("allowed-origin", nil, "Extra origin allowed to open the live-reload socket, repeatable")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags) error {
	cfg, logger, err := root.load(cmd, map[string]string{
		"port":           "server.port",
		"host":           "server.host",
		"watch":          "stories.watch",
		"allowed-origin": "server.allowed_origins",
		"stories":        "stories.path",
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := stories.NewStore(cfg.Stories.Path, logger)
	if err := store.Reload(ctx); err != nil {
		return err
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultShutdownTimeout = 5 * time.Second

type rootFlags struct {
	configPath string
	debug      bool
}

// NewRootCmd builds the securelogin command tree.
func NewRootCmd() *cobra.Command {
	rf := &rootFlags{}

	root := &cobra.Command{
		Use:          "securelogin",
		Short:        "Secure login demo server and page client",
		Version:      Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate("Secure login demo version {{.Version}}\n")

	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "config file path (defaults to $CONFIG_PATH, then built-in defaults)")
	root.PersistentFlags().BoolVarP(&rf.debug, "debug", "d", false, "print debug logs")

	root.AddCommand(newServeCmd(rf))
	root.AddCommand(newPageCmd(rf))
	root.AddCommand(newBuildCmd(rf))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Secure login demo version %s\n", Version)
		},
	}
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	var disableCSP bool

	cmd := &cobra.Command{
		Use:   "serve [bind]",
		Short: "Serve the pages and the /api endpoint",
		Long:  "Serve the pages and the /api endpoint. bind is an IPv4 or IPv6 address with an optional port (default localhost:8080).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if len(args) == 1 {
				overrides["app.server.http.address"] = args[0]
			}
			if disableCSP {
				overrides["app.server.csp.enabled"] = false
			}

			a, err := New(Options{
				ConfigPath: rf.configPath,
				Flags: map[string]*pflag.Flag{
					"app.debug":                cmd.Flag("debug"),
					"app.server.tls.cert_file": cmd.Flag("cert"),
					"app.server.tls.key_file":  cmd.Flag("key"),
				},
				Overrides: overrides,
			})
			if err != nil {
				return err
			}

			runErr := a.InitServer()
			if runErr == nil {
				runErr = <-a.Start()
			}

			timeout := a.config.GetSecond("app.server.http.shutdown_timeout_seconds")
			if timeout <= 0 {
				timeout = defaultShutdownTimeout
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			a.Stop(ctx)

			return runErr
		},
	}

	cmd.Flags().BoolVar(&disableCSP, "disable-csp", false, "disable setting Content-Security-Policy header")
	cmd.Flags().StringP("cert", "c", "", "TLS certificate file path for HTTPS mode")
	cmd.Flags().StringP("key", "k", "", "TLS key file path for HTTPS mode")

	return cmd
}

func newPageCmd(rf *rootFlags) *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Load the pages against a running server and print their output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := New(Options{
				ConfigPath: rf.configPath,
				Flags: map[string]*pflag.Flag{
					"app.debug":            cmd.Flag("debug"),
					"page.base_url":        cmd.Flag("base-url"),
					"page.timeout_seconds": cmd.Flag("timeout"),
				},
				LogOutput: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			runErr := a.RunPage(cmd.Context(), cmd.OutOrStdout(), render)

			ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			a.Stop(ctx)

			return runErr
		},
	}

	cmd.Flags().String("base-url", "http://localhost:8080", "base URL of the server")
	cmd.Flags().Int("timeout", 0, "seconds to wait for the page load (0 waits forever)")
	cmd.Flags().BoolVar(&render, "render", false, "print the rendered HTML pages instead of the output text")

	return cmd
}

func newBuildCmd(rf *rootFlags) *cobra.Command {
	open := func(cmd *cobra.Command) (*App, error) {
		return New(Options{
			ConfigPath: rf.configPath,
			Flags:      map[string]*pflag.Flag{"app.debug": cmd.Flag("debug")},
			LogOutput:  cmd.ErrOrStderr(),
		})
	}

	cmd := &cobra.Command{
		Use:   "build <src> <dst>",
		Short: "Minify and precompress static files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Stop(context.Background())

			report, err := a.Precompress(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("build error: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d files written, %d minified, %d precompressed\n",
				report.Copied, report.Minified, report.Compressed)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clean <dst>",
		Short: "Remove a built directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Stop(context.Background())

			return a.CleanPrecompressed(args[0])
		},
	})

	return cmd
}

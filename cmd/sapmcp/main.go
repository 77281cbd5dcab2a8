// Package main is the entry point for the sapmcp CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/saptools/sapmcp/internal/config"
	"github.com/saptools/sapmcp/internal/engine"
	"github.com/saptools/sapmcp/internal/gui"
	"github.com/saptools/sapmcp/internal/logging"
	"github.com/saptools/sapmcp/internal/server"
	"github.com/saptools/sapmcp/internal/session"
	"github.com/saptools/sapmcp/internal/telemetry"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sapmcp",
		Short:         "MCP server exposing SAP GUI scripting as tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to configuration file")
	root.AddCommand(versionCmd(), serveCmd(), loginCmd(), screenshotCmd(), serviceCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("sapmcp %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads the --config file, falling back to defaults when the
// flag is unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// runtime bundles the wired collaborators behind the commands.
type runtime struct {
	cfg      *config.Config
	logs     *logging.Set
	log      *slog.Logger
	sessions *session.Accessor
	ops      *gui.Facade
}

// newRuntime wires the engine, launcher, accessor and façade. stdout is
// reserved for the MCP transport, so logs go to stderr.
func newRuntime(cfg *config.Config) *runtime {
	logs := logging.New(os.Stderr, os.Getenv)
	eng := engine.Lazy()
	launcher := session.NewLauncher(cfg.LauncherPath, eng.Running, logs.Logger(logging.StreamLauncher))
	return &runtime{
		cfg:      cfg,
		logs:     logs,
		log:      logs.Logger(logging.StreamServer),
		sessions: session.New(eng, launcher, logs.Logger(logging.StreamEngine)),
		ops:      gui.New(logs.Logger(logging.StreamServer), cfg.ScreenshotDir, cfg.ExportDir),
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			monitor, _ := cmd.Flags().GetString("monitor")
			if monitor != "" {
				cfg.Monitor = monitor
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("monitor", "", "health/metrics listen address, e.g. 127.0.0.1:9464")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(cfg)

	tracer, shutdownTracing, err := telemetry.SetupTracing(ctx, server.Name, version)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	metrics := telemetry.NewMetrics()
	if cfg.Monitor != "" {
		mon := telemetry.NewMonitor(cfg.Monitor, metrics, rt.logs.Logger(logging.StreamServer))
		mon.Start()
		defer func() { _ = mon.Shutdown(context.Background()) }()
	}

	srv := server.New(server.Options{
		Version:    version,
		Sessions:   rt.sessions,
		Ops:        rt.ops,
		LaunchWait: cfg.LaunchWait,
		Log:        rt.logs.Logger(logging.StreamMCP),
		Metrics:    metrics,
		Tracer:     tracer,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	select {
	case <-ctx.Done():
		rt.log.Info("shutting down")
		return nil
	case err := <-errc:
		return err
	}
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an SAP system from the terminal",
		Long: "Log in to an SAP system. Missing parameters fall back to the SAP_* " +
			"environment variables; anything still unresolved is prompted for interactively.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			args := config.CredentialArgs{}
			args.System, _ = cmd.Flags().GetString("system")
			args.Client, _ = cmd.Flags().GetString("client")
			args.User, _ = cmd.Flags().GetString("user")
			args.Password, _ = cmd.Flags().GetString("password")
			args.Language, _ = cmd.Flags().GetString("language")
			args.UseSSO, _ = cmd.Flags().GetBool("sso")

			noInput, _ := cmd.Flags().GetBool("no-input")
			creds := config.ResolveCredentials(args)
			if len(creds.Missing()) > 0 && !noInput {
				if err := promptCredentials(&args); err != nil {
					return err
				}
				creds = config.ResolveCredentials(args)
			}

			rt := newRuntime(cfg)
			sess, err := rt.sessions.Login(creds, cfg.LaunchWait)
			if err != nil {
				return err
			}
			details, err := rt.ops.SessionDetails(sess)
			if err != nil {
				return err
			}
			fmt.Printf("logged in to %s as %s (client %s)\n",
				details.SystemName, details.User, details.Client)
			return nil
		},
	}
	cmd.Flags().String("system", "", "system description as shown in SAP Logon")
	cmd.Flags().String("client", "", "client number")
	cmd.Flags().String("user", "", "user name")
	cmd.Flags().String("password", "", "password (prefer SAP_PASSWORD)")
	cmd.Flags().String("language", "", "logon language")
	cmd.Flags().Bool("sso", false, "use single sign-on")
	cmd.Flags().Bool("no-input", false, "never prompt; fail on missing credentials")
	return cmd
}

// promptCredentials fills the gaps interactively. The password input is
// masked and never echoed.
func promptCredentials(args *config.CredentialArgs) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("System").Description("As shown in SAP Logon").Value(&args.System),
		huh.NewConfirm().Title("Use single sign-on?").Value(&args.UseSSO),
		huh.NewInput().Title("Client").Value(&args.Client),
		huh.NewInput().Title("User").Value(&args.User),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&args.Password),
		huh.NewInput().Title("Language").Placeholder("EN").Value(&args.Language),
	))
	return form.Run()
}

func screenshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture the active SAP window to an image file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			window, _ := cmd.Flags().GetString("window")

			rt := newRuntime(cfg)
			sess, err := rt.sessions.Current()
			if err != nil {
				return err
			}
			path, err := rt.ops.Screenshot(sess, output, window)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().String("output", "", "target file; empty generates a timestamped PNG")
	cmd.Flags().String("window", "", "window id; empty captures the active window")
	return cmd
}

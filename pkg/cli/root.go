package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gareport/internal/config"
	"gareport/internal/domain"
	"gareport/internal/export"
	"gareport/internal/ga"
	"gareport/internal/service/query"
)

var (
	version = "dev"
	commit  = "none"
)

// Connector builds the query executor for a resolved configuration.
type Connector func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.QueryExecutor, error)

// connectGA authenticates with the service-account key file and returns a
// rate-limited reporting API client.
func connectGA(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.QueryExecutor, error) {
	return ga.Connect(ctx, gaOptions(cfg), logger)
}

func gaOptions(cfg *config.Config) ga.Options {
	return ga.Options{
		KeyFile:    cfg.KeyFile,
		BaseURL:    cfg.APIBaseURL,
		RateLimit:  cfg.RateLimitRPS,
		Burst:      cfg.RateLimitBurst,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		PageSize:   cfg.PageSize,
	}
}

// Execute runs the CLI.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(connectGA)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == outputJSON {
			_ = PrintJSON(os.Stdout, errorObject(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// errorObject describes err for JSON output.
func errorObject(err error) map[string]any {
	errObj := map[string]any{
		"error": err.Error(),
	}
	var (
		valErr       *domain.ValidationError
		execErr      *domain.ExecutorError
		malformedErr *domain.MalformedResponseError
		coerceErr    *domain.CoercionError
	)
	switch {
	case errors.As(err, &valErr):
		errObj["code"] = "validation"
	case errors.As(err, &execErr):
		errObj["code"] = "executor"
		errObj["start_index"] = execErr.StartIndex
	case errors.As(err, &malformedErr):
		errObj["code"] = "malformed_response"
		if len(malformedErr.Missing) > 0 {
			errObj["missing"] = malformedErr.Missing
		}
	case errors.As(err, &coerceErr):
		errObj["code"] = "coercion"
		errObj["column"] = coerceErr.Column
		errObj["row"] = coerceErr.Row
	}
	return errObj
}

// app holds the settings resolved by the root command and lazily builds
// the query service.
type app struct {
	connect Connector
	cfg     *config.Config
	logger  *slog.Logger
	svc     *query.QueryService
}

// service returns the query service, connecting on first use.
func (a *app) service(ctx context.Context) (*query.QueryService, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	exec, err := a.connect(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.svc = query.NewQueryService(exec, a.logger)
	return a.svc, nil
}

// exportOptions returns the export settings for a --dest destination.
func (a *app) exportOptions(cmd *cobra.Command, appendTo bool) export.Options {
	format := export.FormatCSV
	if getOutputFormat(cmd) == outputJSON {
		format = export.FormatJSON
	}
	return export.Options{
		Format:  format,
		Append:  appendTo,
		Storage: a.cfg.Storage,
		Stdout:  cmd.OutOrStdout(),
	}
}

// newLogger writes human-readable logs to a terminal and JSON otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func newRootCmd(connect Connector) *cobra.Command {
	var (
		keyFile  string
		viewID   string
		output   string
		profile  string
		logLevel string
		envFile  string
	)
	a := &app{connect: connect}

	rootCmd := &cobra.Command{
		Use:           "gareport",
		Short:         "Google Analytics reporting client",
		Long:          "Run Core Reporting API queries, pre-built reports and scheduled exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}

			// Config file is optional
			userCfg, err := LoadUserConfig()
			if err != nil {
				userCfg = emptyUserConfig()
			}
			p := userCfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			resolve(cmd, "output", &output, "GAREPORT_OUTPUT", p.Output)
			resolve(cmd, "key-file", &keyFile, "GA_KEY_FILE", p.KeyFile)
			resolve(cmd, "view-id", &viewID, "GA_VIEW_ID", p.ViewID)
			resolve(cmd, "log-level", &logLevel, "LOG_LEVEL", p.LogLevel)

			if err := validateOutputFormat(output); err != nil {
				return err
			}

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			if keyFile != "" {
				cfg.KeyFile = keyFile
				if cfg.Storage.GCSCredentialsFile == "" {
					cfg.Storage.GCSCredentialsFile = keyFile
				}
			}
			if viewID != "" {
				cfg.ViewID = viewID
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			for _, w := range cfg.Warnings {
				a.logger.Debug("config", "warning", w)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&keyFile, "key-file", "", "Service-account JSON key file")
	rootCmd.PersistentFlags().StringVar(&viewID, "view-id", "", "Analytics view (profile) id")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newQueryCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newFieldsCmd())
	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// resolve fills *dst from env or the profile when the flag was not set.
func resolve(cmd *cobra.Command, flag string, dst *string, env, fromProfile string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*dst = v
	} else if fromProfile != "" {
		*dst = fromProfile
	}
}

// requireViewID returns the resolved view id or a validation error.
func (a *app) requireViewID() (string, error) {
	if a.cfg.ViewID == "" {
		return "", domain.ErrValidation("no view id: pass --view-id, set GA_VIEW_ID or add view-id to the profile")
	}
	return a.cfg.ViewID, nil
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}

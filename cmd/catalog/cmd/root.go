package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mytheresa/go-catalog/app/logging"
	"github.com/mytheresa/go-catalog/app/tracing"
	"github.com/mytheresa/go-catalog/client"
	"github.com/mytheresa/go-catalog/config"
	"github.com/mytheresa/go-catalog/paginator"
	"github.com/mytheresa/go-catalog/view"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	cfgFile        string
	cfg            *config.Config
	tracerProvider *sdktrace.TracerProvider
)

var rootCmd = &cobra.Command{
	Use:               "catalog",
	Short:             "Browse, add and update catalog products and categories",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// reportedError marks a failure the user has already been notified about.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// reported wraps a controller error so Execute does not print it twice.
// Errors the controller only logged are returned as is.
func reported(err error) error {
	if view.Notified(err) {
		return reportedError{err}
	}
	return err
}

func Execute() {
	if err := run(context.Background()); err != nil {
		var already reportedError
		if !errors.As(err, &already) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// run executes the selected command and flushes spans whether or not it
// failed.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if flushErr := shutdownTracing(); flushErr != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to flush traces:", flushErr)
	}
	return err
}

func shutdownTracing() error {
	if tracerProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./catalog.yaml)")
	flags.String("api-url", config.DefaultAPIURL, "Catalog API base URL")
	flags.Int("page-size", config.DefaultPageSize, "Products per page")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")

	_ = viper.BindPFlag("CATALOG_API_URL", flags.Lookup("api-url"))
	_ = viper.BindPFlag("PAGE_SIZE", flags.Lookup("page-size"))
	_ = viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", flags.Lookup("log-format"))
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Init(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	if cfg.OTelCollectorHost != "" {
		tp, err := tracing.InitTracing(cmd.Context(), cfg.OTelCollectorHost, "catalog-"+cmd.Name())
		if err != nil {
			return err
		}
		tracerProvider = tp
	}
	return nil
}

func newLogger(w io.Writer) zerolog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat, w)
}

func newClient(logger zerolog.Logger) *client.Client {
	return client.New(cfg.APIURL, client.WithLogger(logging.Component(logger, "client")))
}

func newController(store view.Store, notifier view.Notifier, logger zerolog.Logger) *view.Controller {
	return view.NewController(store, notifier, paginator.New(cfg.PageSize), logging.Component(logger, "view"))
}

// stderrNotices prints notices for the one-shot commands.
func stderrNotices(w io.Writer) view.Notifier {
	return view.NotifierFunc(func(n view.Notice) {
		prefix := ""
		if n.Level == view.LevelError {
			prefix = "error: "
		}
		fmt.Fprintln(w, prefix+n.Message)
	})
}

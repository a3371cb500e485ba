package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phazelsound/client/internal/client"
	"github.com/phazelsound/client/internal/config"
	"github.com/phazelsound/client/internal/logging"
	"github.com/phazelsound/client/internal/service"
	"github.com/phazelsound/client/internal/session"
	"github.com/phazelsound/client/internal/validation"
)

// app - 하위 명령이 공유하는 의존성
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	store *session.Store
	svc   *service.AuthService
}

type rootFlags struct {
	apiURL   string
	timeout  time.Duration
	locale   string
	logLevel string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     = &app{}
	)

	rootCmd := &cobra.Command{
		Use:           "phazel",
		Short:         "Phazel Sound account client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "gateway base URL (default $PHAZEL_API_URL or "+config.DefaultBaseURL+")")
	pf.DurationVar(&flags.timeout, "timeout", 0, "request timeout (default $PHAZEL_API_TIMEOUT or 10s)")
	pf.StringVar(&flags.locale, "locale", "", "message locale: en or vi (default $PHAZEL_LOCALE)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (default $LOG_LEVEL or info)")

	rootCmd.AddCommand(
		newRegisterCommand(a),
		newVerifyCommand(a),
		newResendCommand(a),
		newLoginCommand(a),
		newForgotPasswordCommand(a),
		newResetPasswordCommand(a),
		newShellCommand(a),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.timeout > 0 {
		cfg.API.Timeout = flags.timeout
	}
	if flags.locale != "" {
		cfg.API.Locale = flags.locale
	}
	switch {
	case flags.logLevel != "":
		cfg.Log.Level = flags.logLevel
	case os.Getenv("LOG_LEVEL") == "":
		// 명령 출력과 섞이지 않도록 기본은 warn
		cfg.Log.Level = "warn"
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	log.SetOutput(cmd.ErrOrStderr())

	gw := client.NewGateway(cfg.API, client.WithLogger(log))
	log.WithField("api_url", gw.BaseURL()).Debug("gateway configured")

	api := client.NewAuthClient(gw)
	a.cfg = cfg
	a.log = log
	a.store = session.New()
	a.svc = service.NewAuthService(api, a.store, validation.New(cfg.API.Locale), log, nil)
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// report prints a screen action failure the way the app shows an alert.
func report(w io.Writer, err error) error {
	notice, ok := service.AsNotice(err)
	if !ok {
		return err
	}

	fmt.Fprintf(w, "%s: %s\n", notice.Title, notice.Message)
	if len(notice.Fields) > 1 {
		keys := make([]string, 0, len(notice.Fields))
		for k := range notice.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, notice.Fields[k])
		}
	}
	return err
}

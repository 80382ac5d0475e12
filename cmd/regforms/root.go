package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/internal/config"
	"github.com/goliatone/go-regforms/internal/logging"
	"github.com/goliatone/go-regforms/internal/server"
	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/orchestrator"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/sanitize"
)

// errInvalidDraft makes validate exit non-zero after printing its report.
var errInvalidDraft = errors.New("regforms: draft is invalid")

type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger

	// newLogger is swapped in tests.
	newLogger func(logging.Options) (*zap.Logger, error)
}

func newApp() *app {
	return &app{
		logger:    zap.NewNop(),
		newLogger: logging.New,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "regforms",
		Short: "Registration forms with a shared validation contract",
		Long: `regforms serves the form-one and form-two registration forms over HTTP,
fills them interactively in the terminal and validates drafts from files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := a.newLogger(logging.Options{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
				Verbose:     a.verbose,
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newFillCmd(a),
		newValidateCmd(a),
		newRenderCmd(a),
		newSchemaCmd(a),
		newFormsCmd(a),
	)
	return root
}

// variant resolves --form, falling back to the configured default.
func (a *app) variant(id string) (registration.Variant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = a.cfg.Forms.Default
	}
	return registration.Lookup(id)
}

func (a *app) formOptions() []form.Option {
	return []form.Option{
		form.WithLogger(a.logger),
		form.WithMessages(a.cfg.Forms.Messages),
		form.WithSanitizer(sanitize.Text),
	}
}

func (a *app) orchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	base, err := server.OrchestratorOptions(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("regforms: %w", err)
	}
	return orchestrator.New(append(base, options...)...), nil
}

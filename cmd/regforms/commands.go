package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/internal/metrics"
	"github.com/goliatone/go-regforms/internal/server"
	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/orchestrator"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/renderers/tui"
	"github.com/goliatone/go-regforms/pkg/schemaexport"
	"github.com/goliatone/go-regforms/pkg/validation"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forms over HTTP",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			srv, err := server.New(cfg,
				server.WithLogger(a.logger),
				server.WithMetrics(metrics.New()),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func newFillCmd(a *app) *cobra.Command {
	var (
		formID  string
		format  string
		confirm bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			variant, err := a.variant(formID)
			if err != nil {
				return err
			}
			outputFormat, err := tui.ParseOutputFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %q", err, format)
			}

			renderer, err := tui.New(
				tui.WithInfoWriter(cmd.ErrOrStderr()),
				tui.WithOutputFormat(outputFormat),
				tui.WithConfirm(confirm),
				tui.WithFormOptions(append(a.formOptions(), form.WithSubmitter(form.LogSubmitter(a.logger)))...),
			)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(orchestrator.WithoutTheme())
			if err != nil {
				return err
			}
			if err := orch.Registry().Register(renderer); err != nil {
				return err
			}

			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				OperationID: variant.ID,
				Renderer:    tui.Name,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, append(out, '\n'))
		},
	}
	cmd.Flags().StringVarP(&formID, "form", "f", "", "Form id (defaults to forms.default)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	cmd.Flags().BoolVar(&confirm, "confirm", true, "Ask before submitting")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the draft to a file instead of stdout")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var formID string
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a JSON draft and print the violations",
		Long: `validate reads a JSON draft from a file, or stdin when the argument is
omitted or "-", and prints the validation result. The exit status is 1 when
the draft is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := a.variant(formID)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var values map[string]any
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&values); err != nil {
				return fmt.Errorf("regforms: decode draft: %w", err)
			}

			f := form.New(variant, a.formOptions()...)
			if err := f.Apply(values); err != nil {
				return err
			}

			result := validation.NewResult(f.Violations())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			a.logger.Debug("draft validated",
				zap.String("form", variant.ID),
				zap.Bool("valid", result.Valid),
			)
			if !result.Valid {
				return errInvalidDraft
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formID, "form", "f", "", "Form id (defaults to forms.default)")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		formID string
		output string
		theme  string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form as static HTML",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			variant, err := a.variant(formID)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}

			f := form.New(variant, a.formOptions()...)
			preview, err := f.Preview()
			if err != nil {
				return err
			}
			html, err := orch.Generate(cmd.Context(), orchestrator.Request{
				OperationID:   variant.ID,
				ThemeName:     theme,
				RenderOptions: render.RenderOptions{
					Values:       f.Values(),
					HiddenFields: render.MergeHiddenFields(nil, render.ActionField(render.ActionChange)),
					Preview:      string(preview),
					CanSubmit:    f.CanSubmit(),
					Pristine:     f.Pristine(),
				},
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, html)
		},
	}
	cmd.Flags().StringVarP(&formID, "form", "f", "", "Form id (defaults to forms.default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the page to a file instead of stdout")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme name (overrides forms.theme)")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	var (
		formID string
		baseID string
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a form",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			variant, err := a.variant(formID)
			if err != nil {
				return err
			}
			data, err := schemaexport.New(schemaexport.WithBaseID(baseID)).JSON(variant.ID)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&formID, "form", "f", "", "Form id (defaults to forms.default)")
	cmd.Flags().StringVar(&baseID, "base-id", schemaexport.DefaultBaseID, "Prefix of the schema $id")
	return cmd
}

func newFormsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the available forms",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator(orchestrator.WithoutTheme())
			if err != nil {
				return err
			}
			ids, err := orch.Forms(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("regforms: read %s: %w", args[0], err)
	}
	return raw, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("regforms: write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}

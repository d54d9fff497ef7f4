package bundlescmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/validate"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

const generateReportMessageType = "localize.bundles.report"

// GenerateReportCommand produces a completeness report for every non-default
// locale.
type GenerateReportCommand struct {
	Pretty bool `json:"pretty"`
}

// Type implements command.Message.
func (GenerateReportCommand) Type() string { return generateReportMessageType }

// Validate implements command.Message.
func (GenerateReportCommand) Validate() error { return nil }

// GenerateReportHandler runs the validator and streams the report as JSON to
// the configured sink.
type GenerateReportHandler struct {
	inner *commands.Handler[GenerateReportCommand]
}

// NewGenerateReportHandler constructs a handler that writes reports to sink.
func NewGenerateReportHandler(validator *validate.Validator, sink io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[GenerateReportCommand]) *GenerateReportHandler {
	exec := func(ctx context.Context, msg GenerateReportCommand) error {
		report := validator.Report(ctx)

		encoder := json.NewEncoder(sink)
		if msg.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(report)
	}

	handlerOpts := []commands.HandlerOption[GenerateReportCommand]{
		commands.WithLogger[GenerateReportCommand](logger),
		commands.WithOperation[GenerateReportCommand]("bundles.report"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateReportHandler{
		inner: commands.NewHandler[GenerateReportCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[GenerateReportCommand].Execute.
func (h *GenerateReportHandler) Execute(ctx context.Context, msg GenerateReportCommand) error {
	return h.inner.Execute(ctx, msg)
}

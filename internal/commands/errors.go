package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by wrapped command errors so operators can distinguish
// localization command failures in aggregated logs.
const (
	codeValidationFailed = "LOCALIZE_COMMAND_VALIDATION_FAILED"
	codeCanceled         = "LOCALIZE_COMMAND_CANCELED"
	codeTimeout          = "LOCALIZE_COMMAND_TIMEOUT"
	codeContextError     = "LOCALIZE_COMMAND_CONTEXT_ERROR"
	codeExecutionFailed  = "LOCALIZE_COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "localize command rejected invalid message").
		WithTextCode(codeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "localize command canceled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "localize command timed out").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "localize command context failed").
			WithTextCode(codeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "localize command failed").
		WithTextCode(codeExecutionFailed)
}

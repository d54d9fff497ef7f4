package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-localize/cmd/i18n/internal/bootstrap"
	bundlescmd "github.com/goliatone/go-localize/internal/commands/bundles"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runReport(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("i18n report: %v", err)
	}
}

func runReport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("i18n-report", flag.ExitOnError)
	localesDir := fs.String("locales-dir", "locales", "Path to the locale bundle root (<dir>/<locale>/<namespace>.json)")
	defaultLocale := fs.String("default-locale", "en", "Reference locale for completeness")
	locales := fs.String("locales", "", "Comma separated locale list (defaults to the built-in set)")
	pretty := fs.Bool("pretty", true, "Indent the JSON report")
	verbose := fs.Bool("verbose", false, "Enable console logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		LocalesDir:    *localesDir,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		Verbose:       *verbose,
	})
	if err != nil {
		return err
	}

	handler := bundlescmd.NewGenerateReportHandler(module.Validator(), out, nil)
	return handler.Execute(context.Background(), bundlescmd.GenerateReportCommand{Pretty: *pretty})
}

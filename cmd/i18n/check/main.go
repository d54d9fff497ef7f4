package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	localize "github.com/goliatone/go-localize"
	"github.com/goliatone/go-localize/cmd/i18n/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	code, err := runCheck(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("i18n check: %v", err)
	}
	os.Exit(code)
}

func runCheck(args []string, out io.Writer) (int, error) {
	fs := flag.NewFlagSet("i18n-check", flag.ExitOnError)
	localesDir := fs.String("locales-dir", "locales", "Path to the locale bundle root (<dir>/<locale>/<namespace>.json)")
	defaultLocale := fs.String("default-locale", "en", "Reference locale for completeness")
	locales := fs.String("locales", "", "Comma separated locale list (defaults to the built-in set)")
	threshold := fs.Float64("threshold", 1.0, "Minimum acceptable completeness per locale (0..1)")
	detail := fs.String("locale", "", "Print missing and untranslated keys for one locale")
	verbose := fs.Bool("verbose", false, "Enable console logging")

	if err := fs.Parse(args); err != nil {
		return 1, err
	}
	if *threshold < 0 || *threshold > 1 {
		return 1, fmt.Errorf("threshold must be between 0 and 1, got %v", *threshold)
	}

	module, err := moduleBuilder(bootstrap.Options{
		LocalesDir:    *localesDir,
		DefaultLocale: *defaultLocale,
		Locales:       bootstrap.SplitLocales(*locales),
		Verbose:       *verbose,
	})
	if err != nil {
		return 1, err
	}

	ctx := context.Background()

	if *detail != "" {
		printLocaleDetail(module, *detail, out)
	}

	report := module.Report(ctx)
	return evaluateReport(report, *threshold, out), nil
}

// printLocaleDetail lists the missing and untranslated keys for one locale,
// grouped by namespace.
func printLocaleDetail(module *localize.Module, locale string, out io.Writer) {
	ctx := context.Background()
	validator := module.Validator()

	summary := validator.ValidateLocale(ctx, locale)
	namespaces := make([]string, 0, len(summary.Namespaces))
	for namespace := range summary.Namespaces {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)

	for _, namespace := range namespaces {
		result := summary.Namespaces[namespace]
		for _, key := range result.MissingKeys {
			fmt.Fprintf(out, "missing       %s  %s.%s\n", locale, namespace, key)
		}
		for _, key := range result.ExtraKeys {
			fmt.Fprintf(out, "extra         %s  %s.%s\n", locale, namespace, key)
		}
	}

	for _, entry := range validator.FindUntranslated(ctx, locale) {
		fmt.Fprintf(out, "untranslated  %s  %s.%s = %q\n", locale, entry.Namespace, entry.Key, entry.Value)
	}
}

// evaluateReport prints one line per locale and returns 1 when any locale
// falls below the threshold.
func evaluateReport(report localize.Report, threshold float64, out io.Writer) int {
	codes := make([]string, 0, len(report.Locales))
	for code := range report.Locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	exitCode := 0
	for _, code := range codes {
		summary := report.Locales[code]
		status := "ok"
		if summary.Completeness < threshold {
			status = "incomplete"
			exitCode = 1
		}
		fmt.Fprintf(out, "%-8s %6.1f%%  missing=%d extra=%d  %s\n",
			code, summary.Completeness*100, summary.MissingTotal, summary.ExtraTotal, status)
	}

	fmt.Fprintf(out, "overall  %6.1f%%  (reference keys: %d, default locale: %s)\n",
		report.OverallCompleteness*100, report.ReferenceKeys, report.DefaultLocale)
	return exitCode
}

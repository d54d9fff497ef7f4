package validate

import (
	"context"
	"testing"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/loader"
	"github.com/goliatone/go-localize/internal/registry"
	"github.com/goliatone/go-localize/internal/resource"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()

	provider := resource.NewMemoryProvider()
	seed := map[string]map[string]bundle.Bundle{
		"en": {
			"common": {
				"appName": "Restaurant Insights",
				"actions": map[string]any{
					"save":   "Save",
					"cancel": "Cancel",
					"retry":  "Retry",
				},
			},
			"dashboard": {"title": "Dashboard"},
		},
		"fr": {
			"common": {
				"appName": "Restaurant Insights",
				"actions": map[string]any{
					"save":   "Enregistrer",
					"cancel": "Annuler",
				},
				"legacy": "Obsolète",
			},
		},
		"es": {
			"common": {
				"appName": "Restaurant Insights",
				"actions": map[string]any{
					"save":   "Guardar",
					"cancel": "Cancelar",
					"retry":  "Reintentar",
				},
			},
			"dashboard": {"title": "Panel"},
		},
	}
	for locale, namespaces := range seed {
		for namespace, doc := range namespaces {
			if err := provider.Register(locale, namespace, doc); err != nil {
				t.Fatalf("seed %s:%s: %v", locale, namespace, err)
			}
		}
	}

	locales, err := registry.NewLocaleRegistry("en", []registry.Locale{
		{Code: "en", Name: "English"},
		{Code: "fr", Name: "Français"},
		{Code: "es", Name: "Español"},
	})
	if err != nil {
		t.Fatalf("locale registry: %v", err)
	}

	v, err := New(loader.New(provider), locales, []string{"common", "dashboard"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func TestValidateNamespace(t *testing.T) {
	v := newTestValidator(t)

	result := v.ValidateNamespace(context.Background(), "fr", "common")
	if result.Valid {
		t.Fatal("fr common is incomplete")
	}
	if len(result.MissingKeys) != 1 || result.MissingKeys[0] != "actions.retry" {
		t.Fatalf("unexpected missing keys %v", result.MissingKeys)
	}
	if len(result.ExtraKeys) != 1 || result.ExtraKeys[0] != "legacy" {
		t.Fatalf("unexpected extra keys %v", result.ExtraKeys)
	}
	if result.Completeness != 0.75 {
		t.Fatalf("expected completeness 0.75, got %v", result.Completeness)
	}
}

func TestValidateNamespaceCompleteTranslation(t *testing.T) {
	v := newTestValidator(t)

	result := v.ValidateNamespace(context.Background(), "es", "common")
	if !result.Valid {
		t.Fatalf("es common is complete, missing=%v", result.MissingKeys)
	}
	if result.Completeness != 1 {
		t.Fatalf("expected completeness 1, got %v", result.Completeness)
	}
}

func TestValidateNamespaceDefaultLocale(t *testing.T) {
	v := newTestValidator(t)

	result := v.ValidateNamespace(context.Background(), "en", "common")
	if !result.Valid || result.Completeness != 1 {
		t.Fatalf("default locale must be trivially complete, got %+v", result)
	}
	if len(result.MissingKeys) != 0 || len(result.ExtraKeys) != 0 {
		t.Fatalf("default locale must report no deltas, got %+v", result)
	}
}

func TestValidateNamespaceMissingBundle(t *testing.T) {
	v := newTestValidator(t)

	result := v.ValidateNamespace(context.Background(), "fr", "dashboard")
	if result.Valid {
		t.Fatal("missing translation must be invalid")
	}
	if result.Completeness != 0 {
		t.Fatalf("expected completeness 0, got %v", result.Completeness)
	}
	if len(result.MissingKeys) != 1 || result.MissingKeys[0] != "title" {
		t.Fatalf("every reference key must be missing, got %v", result.MissingKeys)
	}
}

func TestValidateNamespaceEmptyReference(t *testing.T) {
	v := newTestValidator(t)

	result := v.ValidateNamespace(context.Background(), "fr", "unconfigured")
	if !result.Valid || result.Completeness != 1 {
		t.Fatalf("empty reference must be trivially complete, got %+v", result)
	}
}

func TestValidateLocale(t *testing.T) {
	v := newTestValidator(t)

	summary := v.ValidateLocale(context.Background(), "fr")
	if len(summary.Namespaces) != 2 {
		t.Fatalf("expected 2 namespace results, got %d", len(summary.Namespaces))
	}
	if summary.MissingTotal != 2 {
		t.Fatalf("expected 2 missing keys overall, got %d", summary.MissingTotal)
	}
	// 3 of 5 reference keys translated.
	if summary.Completeness != 0.6 {
		t.Fatalf("expected completeness 0.6, got %v", summary.Completeness)
	}
}

func TestValidateAllSkipsDefaultLocale(t *testing.T) {
	v := newTestValidator(t)

	summaries := v.ValidateAll(context.Background())
	if _, ok := summaries["en"]; ok {
		t.Fatal("default locale must be skipped")
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
}

func TestReport(t *testing.T) {
	v := newTestValidator(t)

	report := v.Report(context.Background())
	if report.DefaultLocale != "en" {
		t.Fatalf("unexpected default locale %q", report.DefaultLocale)
	}
	if report.ReferenceKeys != 5 {
		t.Fatalf("expected 5 reference keys, got %d", report.ReferenceKeys)
	}
	if _, ok := report.Locales["en"]; ok {
		t.Fatal("default locale must not appear in the report")
	}
	if len(report.Locales) != 2 {
		t.Fatalf("expected 2 locales in the report, got %d", len(report.Locales))
	}
	if report.Locales["es"].Completeness != 1 {
		t.Fatalf("es is fully translated, got %v", report.Locales["es"].Completeness)
	}
	if got := report.OverallCompleteness; got != 0.8 {
		t.Fatalf("expected overall completeness 0.8, got %v", got)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("report must carry a timestamp")
	}
}

func TestFindUntranslated(t *testing.T) {
	v := newTestValidator(t)

	untranslated := v.FindUntranslated(context.Background(), "fr")
	if len(untranslated) != 1 {
		t.Fatalf("expected 1 untranslated key, got %v", untranslated)
	}
	if untranslated[0].Key != "appName" || untranslated[0].Namespace != "common" {
		t.Fatalf("unexpected untranslated entry %+v", untranslated[0])
	}
	if untranslated[0].Value != "Restaurant Insights" {
		t.Fatalf("unexpected value %q", untranslated[0].Value)
	}
}

func TestFindUntranslatedDefaultLocale(t *testing.T) {
	v := newTestValidator(t)

	if got := v.FindUntranslated(context.Background(), "en"); got != nil {
		t.Fatalf("default locale has no untranslated keys, got %v", got)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	locales, err := registry.NewLocaleRegistry("en", registry.DefaultLocales())
	if err != nil {
		t.Fatalf("locale registry: %v", err)
	}

	if _, err := New(nil, locales, nil); err != ErrLoaderRequired {
		t.Fatalf("expected ErrLoaderRequired, got %v", err)
	}
	if _, err := New(loader.New(resource.NewMemoryProvider()), nil, nil); err != ErrLocalesRequired {
		t.Fatalf("expected ErrLocalesRequired, got %v", err)
	}
}

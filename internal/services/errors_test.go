package services_test

import (
	"errors"
	"strings"
	"testing"

	"espaform/internal/ledger"
	"espaform/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "gtif", "gdal_translate", "band sr_band1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"gtif", "gdal_translate", "band sr_band1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutBaseError(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "metadata", "parse", "no bands", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !strings.Contains(err.Error(), "no bands") {
		t.Fatalf("expected message in error string %q", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "metadata", "parse", "invalid", nil)
	if status := services.FailureStatus(validationErr); status != ledger.StatusRejected {
		t.Fatalf("expected rejected for validation error, got %s", status)
	}

	configErr := services.Wrap(services.ErrConfiguration, "gtif", "derive output name", "overflow", nil)
	if status := services.FailureStatus(configErr); status != ledger.StatusRejected {
		t.Fatalf("expected rejected for configuration error, got %s", status)
	}

	toolErr := services.Wrap(services.ErrExternalTool, "gtif", "gdal_translate", "exit 1", errors.New("io"))
	if status := services.FailureStatus(toolErr); status != ledger.StatusFailed {
		t.Fatalf("expected failed for tool error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != ledger.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}

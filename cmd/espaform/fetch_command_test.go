package main

import (
	"strings"
	"testing"
)

func TestFetchRequiresStagingEnabled(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"fetch", "LT50450302008210PAC01"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "staging is disabled") {
		t.Fatalf("expected staging-disabled error, got %v", err)
	}
}

func TestFetchRejectsConfigWithoutBucket(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Staging.Enabled = true
	env.cfg.Staging.Bucket = ""
	writeCLIConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"fetch", "LT50450302008210PAC01"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "staging.bucket") {
		t.Fatalf("expected bucket validation error, got %v", err)
	}
}

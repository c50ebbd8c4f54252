// SPDX-License-Identifier: MPL-2.0

package respawn

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"respawn-cli/internal/registry"
)

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		name  string
		token string
		reply string
		want  bool
	}{
		{name: "accepts token", token: "y", reply: "y\n", want: true},
		{name: "accepts token with whitespace", token: "y", reply: "  y  \n", want: true},
		{name: "case folds", token: "y", reply: "Y\n", want: true},
		{name: "rejects other input", token: "y", reply: "n\n", want: false},
		{name: "rejects empty reply", token: "y", reply: "\n", want: false},
		{name: "yes token rejects y", token: "yes", reply: "y\n", want: false},
		{name: "yes token accepts yes", token: "yes", reply: "YES\n", want: true},
		{name: "closed input declines", token: "y", reply: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			confirm := PromptConfirm(strings.NewReader(tt.reply), &out, tt.token)

			if got := confirm("0.2.0"); got != tt.want {
				t.Errorf("confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "0.2.0") {
				t.Errorf("prompt %q does not name the proposed version", out.String())
			}
		})
	}
}

func TestPromptConfirmLastLineWithoutNewline(t *testing.T) {
	// A reply terminated by EOF instead of a newline must still count.
	confirm := PromptConfirm(strings.NewReader("y"), &strings.Builder{}, "y")
	if !confirm("0.2.0") {
		t.Error("EOF-terminated affirmative reply was rejected")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{Package: "respawn", CurrentVersion: "0.1.0"}
	got := cfg.withDefaults()

	if got.Confirm == nil {
		t.Error("default confirmation policy not set")
	}
	if _, ok := got.Resolver.(*registry.Client); !ok {
		t.Errorf("default resolver is %T, want *registry.Client", got.Resolver)
	}
	if got.LockDir == "" {
		t.Error("default lock directory not set")
	}
	if got.Installer.Command != "cargo" || got.Installer.Subcommand != "install" ||
		got.Installer.FeatureFlag != "--features" {
		t.Errorf("unexpected default installer: %+v", got.Installer)
	}
	if got.Logger == nil {
		t.Error("default logger not set")
	}
}

func TestWithDefaultsKeepsOverrides(t *testing.T) {
	logger := log.New(&strings.Builder{})
	resolver := &fakeResolver{version: "1.0.0"}
	cfg := Config{
		Package:        "respawn",
		CurrentVersion: "0.1.0",
		Resolver:       resolver,
		LockDir:        "/var/lock",
		Installer:      Installer{Command: "brew", Subcommand: "install", FeatureFlag: "--with"},
		Logger:         logger,
	}

	got := cfg.withDefaults()
	if got.Resolver != VersionResolver(resolver) {
		t.Error("caller-supplied resolver replaced")
	}
	if got.LockDir != "/var/lock" {
		t.Error("caller-supplied lock directory replaced")
	}
	if got.Installer.Command != "brew" || got.Installer.FeatureFlag != "--with" {
		t.Error("caller-supplied installer replaced")
	}
	if got.Logger != logger {
		t.Error("caller-supplied logger replaced")
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Package: "p", CurrentVersion: "v"}).validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := (Config{Package: "  ", CurrentVersion: "v"}).validate(); err == nil {
		t.Error("blank package accepted")
	}
	if err := (Config{Package: "p", CurrentVersion: " "}).validate(); err == nil {
		t.Error("blank current version accepted")
	}
}

// SPDX-License-Identifier: MPL-2.0

package spawn

import (
	"context"
	"reflect"
	"runtime"
	"testing"
)

func TestInstallArgs(t *testing.T) {
	tests := []struct {
		name string
		spec InstallSpec
		want []string
	}{
		{
			name: "package only",
			spec: InstallSpec{Command: "cargo", Subcommand: "install", Package: "respawn"},
			want: []string{"install", "respawn"},
		},
		{
			name: "single feature",
			spec: InstallSpec{
				Command: "cargo", Subcommand: "install", Package: "respawn",
				FeatureFlag: "--features", Features: []string{"tls"},
			},
			want: []string{"install", "respawn", "--features", "tls"},
		},
		{
			name: "multiple features each get their own flag",
			spec: InstallSpec{
				Command: "cargo", Subcommand: "install", Package: "respawn",
				FeatureFlag: "--features", Features: []string{"tls", "tracing"},
			},
			want: []string{"install", "respawn", "--features", "tls", "--features", "tracing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := installArgs(tt.spec)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("installArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstallIgnoresExitStatusByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on /bin/sh")
	}

	spec := InstallSpec{
		Command:    "sh",
		Subcommand: "-c",
		Package:    "exit 3",
	}
	if err := Install(context.Background(), spec); err != nil {
		t.Errorf("non-strict install must swallow a non-zero exit, got %v", err)
	}
}

func TestInstallStrictReportsExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on /bin/sh")
	}

	spec := InstallSpec{
		Command:    "sh",
		Subcommand: "-c",
		Package:    "exit 3",
		Strict:     true,
	}
	if err := Install(context.Background(), spec); err == nil {
		t.Error("strict install must report a non-zero installer exit")
	}
}

func TestInstallCommandNotFound(t *testing.T) {
	spec := InstallSpec{
		Command:    "definitely-not-a-package-manager",
		Subcommand: "install",
		Package:    "respawn",
	}
	if err := Install(context.Background(), spec); err == nil {
		t.Error("an installer that cannot start must always be an error")
	}
}

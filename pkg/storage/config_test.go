package storage_test

import (
	"testing"

	"github.com/ONSdigital/survey-assist-themes/pkg/storage"
)

func TestConfigFinalize(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "survey-input",
		ConnectionString: "UseDevelopmentStorage=true",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
}

func TestConfigFinalizeMissingValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{name: "missing container", cfg: storage.Config{ConnectionString: "UseDevelopmentStorage=true"}},
		{name: "missing connection string", cfg: storage.Config{ContainerName: "survey-input"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONTAINER", "env-container")
	t.Setenv("TEST_STORAGE_CONNECTION_STRING", "env-connection")

	cfg := &storage.Config{
		ContainerName:    "file-container",
		ConnectionString: "file-connection",
	}

	env := &storage.Env{
		ContainerName:    "TEST_STORAGE_CONTAINER",
		ConnectionString: "TEST_STORAGE_CONNECTION_STRING",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if cfg.ContainerName != "env-container" {
		t.Errorf("ContainerName = %s", cfg.ContainerName)
	}
	if cfg.ConnectionString != "env-connection" {
		t.Errorf("ConnectionString = %s", cfg.ConnectionString)
	}
}

func TestConfigMerge(t *testing.T) {
	base := &storage.Config{
		ContainerName:    "base-container",
		ConnectionString: "base-connection",
	}

	base.Merge(&storage.Config{ContainerName: "overlay-container"})

	if base.ContainerName != "overlay-container" {
		t.Errorf("ContainerName = %s", base.ContainerName)
	}
	if base.ConnectionString != "base-connection" {
		t.Errorf("ConnectionString = %s, zero overlay fields must not overwrite", base.ConnectionString)
	}
}

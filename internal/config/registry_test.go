package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "ioreg-explorer") {
		t.Errorf("GetConfigDir() = %v, should contain 'ioreg-explorer'", configDir)
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	want := filepath.Join(dir, "ioreg-explorer")
	if configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.ClientLabel != DefaultClientLabel {
		t.Errorf("ClientLabel = %v, want %v", reg.Preferences.ClientLabel, DefaultClientLabel)
	}

	if reg.Preferences.OperationTimeout != 0 {
		t.Errorf("OperationTimeout = %v, want 0 (disabled)", reg.Preferences.OperationTimeout)
	}

	if reg.Preferences.ExportFilename != "ioreg.plist" {
		t.Errorf("ExportFilename = %v, want ioreg.plist", reg.Preferences.ExportFilename)
	}

	if len(reg.Apps) != 5 {
		t.Errorf("len(Apps) = %v, want 5", len(reg.Apps))
	}
}

func TestRegistryPairingFile(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		app    string
		want   string
		wantOK bool
	}{
		{"SideStore", "ALTPairingFile.mobiledevicepairing", true},
		{"Feather", "pairingFile.plist", true},
		{"StikDebug", "pairingFile.plist", true},
		{"Unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			got, ok := reg.PairingFile(tt.app)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PairingFile(%v) = %v, %v, want %v, %v", tt.app, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRegistryAppNames(t *testing.T) {
	reg := NewRegistry()

	got := strings.Join(reg.AppNames(), ",")
	want := "Antrag,Feather,Protokolle,SideStore,StikDebug"
	if got != want {
		t.Errorf("AppNames() = %v, want %v", got, want)
	}
}

func TestPreferencesDurations(t *testing.T) {
	p := &Preferences{OperationTimeout: 15, DiscoverTimeout: 3}

	if got := p.OperationTimeoutDuration(); got != 15*time.Second {
		t.Errorf("OperationTimeoutDuration() = %v, want 15s", got)
	}
	if got := p.DiscoverTimeoutDuration(); got != 3*time.Second {
		t.Errorf("DiscoverTimeoutDuration() = %v, want 3s", got)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.Preferences.OperationTimeout = 20
	reg.Preferences.USBMuxdAddress = "127.0.0.1:27015"
	reg.Apps["Custom"] = "custom.plist"

	if err := reg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away after save")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if loaded.Preferences.OperationTimeout != 20 {
		t.Errorf("OperationTimeout = %v, want 20", loaded.Preferences.OperationTimeout)
	}
	if loaded.Preferences.USBMuxdAddress != "127.0.0.1:27015" {
		t.Errorf("USBMuxdAddress = %v, want 127.0.0.1:27015", loaded.Preferences.USBMuxdAddress)
	}
	if name, _ := loaded.PairingFile("Custom"); name != "custom.plist" {
		t.Errorf("PairingFile(Custom) = %v, want custom.plist", name)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	reg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if reg.Preferences.ClientLabel != DefaultClientLabel {
		t.Errorf("missing file should yield defaults, got label %v", reg.Preferences.ClientLabel)
	}
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\npreferences:\n  operation_timeout: -4\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if reg.Preferences.ClientLabel != DefaultClientLabel {
		t.Errorf("ClientLabel = %v, want default", reg.Preferences.ClientLabel)
	}
	if reg.Preferences.OperationTimeout != 0 {
		t.Errorf("negative OperationTimeout should clamp to 0, got %v", reg.Preferences.OperationTimeout)
	}
	if reg.Preferences.DiscoverTimeout != DefaultDiscoverTimeout {
		t.Errorf("DiscoverTimeout = %v, want %v", reg.Preferences.DiscoverTimeout, DefaultDiscoverTimeout)
	}
	if len(reg.Apps) == 0 {
		t.Error("Apps should fall back to defaults")
	}
}

func TestLoadFile_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should reject version 2")
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(WithDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("expected default serial port, got %q", config.SerialPort)
	}
	if config.BaudRate != 115200 {
		t.Errorf("expected default baud rate, got %d", config.BaudRate)
	}
	if config.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", config.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "espnet.yaml")
	content := "serial_port: /dev/ttyACM1\nbaud_rate: 921600\nssid: testnet\npassword: hunter2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	config, err := LoadConfig(WithDefaults(), WithFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.SerialPort != "/dev/ttyACM1" {
		t.Errorf("expected serial port from file, got %q", config.SerialPort)
	}
	if config.BaudRate != 921600 {
		t.Errorf("expected baud rate from file, got %d", config.BaudRate)
	}
	if config.SSID != "testnet" || config.Password != "hunter2" {
		t.Errorf("expected credentials from file, got %q/%q", config.SSID, config.Password)
	}
	// Values absent from the file keep their defaults
	if config.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", config.LogLevel)
	}
}

func TestLoadConfigFileEmptyPath(t *testing.T) {
	config, err := LoadConfig(WithDefaults(), WithFile(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("expected defaults to survive, got %q", config.SerialPort)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "espnet.yaml")
	if err := os.WriteFile(path, []byte("baud_rate: [not a number"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadConfig(WithDefaults(), WithFile(path)); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("ESPNET_SERIAL_PORT", "/dev/ttyS3")
	t.Setenv("ESPNET_BAUD_RATE", "57600")
	t.Setenv("ESPNET_SSID", "envnet")

	config, err := LoadConfig(WithDefaults(), WithEnv())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.SerialPort != "/dev/ttyS3" {
		t.Errorf("expected serial port from env, got %q", config.SerialPort)
	}
	if config.BaudRate != 57600 {
		t.Errorf("expected baud rate from env, got %d", config.BaudRate)
	}
	if config.SSID != "envnet" {
		t.Errorf("expected SSID from env, got %q", config.SSID)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	fSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fSet.String("serial-port", "/dev/ttyUSB0", "")
	fSet.Int("baud-rate", 115200, "")
	fSet.String("ssid", "", "")
	if err := fSet.Parse([]string{"--serial-port", "/dev/ttyAMA0", "--ssid", "flagnet"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	config, err := LoadConfig(WithDefaults(), WithFlags(fSet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.SerialPort != "/dev/ttyAMA0" {
		t.Errorf("expected serial port from flag, got %q", config.SerialPort)
	}
	if config.SSID != "flagnet" {
		t.Errorf("expected SSID from flag, got %q", config.SSID)
	}
	// Flags left at their default are not applied over earlier layers
	if config.BaudRate != 115200 {
		t.Errorf("expected default baud rate, got %d", config.BaudRate)
	}
}

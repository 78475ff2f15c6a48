package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/dbrgn/rt-esp-at-nal/wifi"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "espnet",
	Short: "TCP client networking over an ESP-AT WiFi module",
	Long: `espnet drives an ESP-AT WiFi radio module attached to a serial port
and provides TCP client networking through it: joining an access point,
querying the local address, and exchanging data over TCP sockets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the configured access point",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if config.SSID == "" {
			return errors.New("no SSID configured")
		}

		adapter, err := newAdapter(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer adapter.Shutdown()

		state, err := adapter.Join(config.SSID, config.Password)
		if err != nil {
			return fmt.Errorf("join access point: %w", err)
		}
		logger.Info("Join state", "connected", state.Connected, "ip_assigned", state.IPAssigned)

		// The module keeps retrying on its own, so poll for a late success
		for deadline := time.Now().Add(10 * time.Second); !state.IPAssigned && time.Now().Before(deadline); {
			time.Sleep(500 * time.Millisecond)
			state = adapter.JoinState()
		}
		if !state.IPAssigned {
			return errors.New("no address lease obtained")
		}

		addr, err := adapter.Address()
		if err != nil {
			return err
		}
		logger.Info("Joined", "ip", addr.IPv4, "mac", addr.MAC)
		return nil
	},
}

var addrCmd = &cobra.Command{
	Use:   "addr",
	Short: "Show the local address records of the module",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, _, err := setup(cmd)
		if err != nil {
			return err
		}

		adapter, err := newAdapter(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer adapter.Shutdown()

		addr, err := adapter.Address()
		if err != nil {
			return err
		}

		if addr.IPv4.IsValid() {
			fmt.Printf("ipv4        %s\n", addr.IPv4)
		}
		if addr.IPv6LinkLocal.IsValid() {
			fmt.Printf("ipv6-ll     %s\n", addr.IPv6LinkLocal)
		}
		if addr.IPv6Global.IsValid() {
			fmt.Printf("ipv6-global %s\n", addr.IPv6Global)
		}
		if addr.MAC != "" {
			fmt.Printf("mac         %s\n", addr.MAC)
		}
		return nil
	},
}

var sendrecvCmd = &cobra.Command{
	Use:   "sendrecv <remote>",
	Short: "Send stdin to a TCP remote and print the response",
	Long: `sendrecv connects to the given remote (an ip:port pair), transmits
everything read from stdin and then polls for response data until the
receive timeout elapses. Received data is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		remote, err := netip.ParseAddrPort(args[0])
		if err != nil {
			return fmt.Errorf("invalid remote %q: %w", args[0], err)
		}
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		adapter, err := newAdapter(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer adapter.Shutdown()

		socket, err := adapter.Socket()
		if err != nil {
			return err
		}
		if err := adapter.Connect(&socket, remote); err != nil {
			return err
		}
		defer adapter.Close(socket)

		sent, err := adapter.Send(&socket, data)
		if err != nil {
			return err
		}
		logger.Debug("Data sent", "remote", remote, "bytes", sent)

		buffer := make([]byte, 1024)
		for deadline := time.Now().Add(timeout); time.Now().Before(deadline); {
			n, err := adapter.Receive(&socket, buffer)
			if errors.Is(err, wifi.ErrWouldBlock) {
				time.Sleep(50 * time.Millisecond)
				continue
			}
			if err != nil {
				return err
			}
			os.Stdout.Write(buffer[:n])
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().String("serial-port", "/dev/ttyUSB0", "Serial port the module is attached to")
	rootCmd.PersistentFlags().Int("baud-rate", 115200, "Baud rate for serial communication")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("ssid", "", "Access point SSID")
	rootCmd.PersistentFlags().String("password", "", "Access point password")

	sendrecvCmd.Flags().DurationP("timeout", "t", 5*time.Second, "How long to poll for response data")

	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(addrCmd)
	rootCmd.AddCommand(sendrecvCmd)
}

// setup loads the layered configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	config, err := LoadConfig(
		WithDefaults(),
		WithFile(configFile),
		WithEnv(),
		WithFlags(cmd.Flags()),
	)
	if err != nil {
		return nil, nil, err
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return config, logger, nil
}

func newAdapter(ctx context.Context, config *Config) (*wifi.Adapter, error) {
	wifiConfig, err := wifi.NewConfigBuilder().
		WithATTimeout(5 * time.Second).
		WithSendTimeout(5 * time.Second).
		WithDialer(wifi.SerialDialer{
			PortName: config.SerialPort,
			Mode: &serial.Mode{
				BaudRate: config.BaudRate,
				DataBits: 8,
				Parity:   serial.NoParity,
				StopBits: serial.OneStopBit,
			},
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build adapter config: %w", err)
	}

	return wifi.New(ctx, wifiConfig)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

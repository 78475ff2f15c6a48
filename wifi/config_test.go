package wifi_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dbrgn/rt-esp-at-nal/wifi"
)

func TestConfig(t *testing.T) {
	t.Run("ErrNoDialer when no dialer provided", func(t *testing.T) {
		_, err := wifi.NewConfigBuilder().Build()

		if !errors.Is(err, wifi.ErrNoDialer) {
			t.Errorf("expected ErrNoDialer, got: %v", err)
		}
	})

	t.Run("Defaults applied for unset values", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config, err := wifi.NewConfigBuilder().
			WithDialer(wifi.NewMockDialer(ctrl)).
			Build()

		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		if config.ATTimeout != 5*time.Second {
			t.Errorf("expected 5s AT timeout, got %v", config.ATTimeout)
		}
		if config.SendTimeout != 5*time.Second {
			t.Errorf("expected 5s send timeout, got %v", config.SendTimeout)
		}
		if config.TxChunkSize != 256 || config.RxChunkSize != 256 {
			t.Errorf("expected 256 byte chunks, got tx=%d rx=%d", config.TxChunkSize, config.RxChunkSize)
		}
	})

	t.Run("Explicit values preserved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config, err := wifi.NewConfigBuilder().
			WithDialer(wifi.NewMockDialer(ctrl)).
			WithATTimeout(time.Second).
			WithSendTimeout(10 * time.Second).
			WithTxChunkSize(1024).
			WithRxChunkSize(512).
			Build()

		if err != nil {
			t.Fatalf("unexpected error from Build(): %v", err)
		}
		if config.ATTimeout != time.Second || config.SendTimeout != 10*time.Second {
			t.Errorf("unexpected timeouts: %+v", config)
		}
		if config.TxChunkSize != 1024 || config.RxChunkSize != 512 {
			t.Errorf("unexpected chunk sizes: %+v", config)
		}
	})

	t.Run("Rejects chunk sizes above the module maximum", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := wifi.NewConfigBuilder().
			WithDialer(wifi.NewMockDialer(ctrl)).
			WithTxChunkSize(8193).
			Build()

		if err == nil {
			t.Error("expected error for oversize tx chunk")
		}

		_, err = wifi.NewConfigBuilder().
			WithDialer(wifi.NewMockDialer(ctrl)).
			WithRxChunkSize(8193).
			Build()

		if err == nil {
			t.Error("expected error for oversize rx chunk")
		}
	})
}

package wifi_test

import (
	"context"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/dbrgn/rt-esp-at-nal/at"
	"github.com/dbrgn/rt-esp-at-nal/wifi"
)

func okResp(lines ...string) wifi.Response {
	return wifi.Response{Lines: append(lines, at.OK)}
}

// eventQueue feeds a MockClient's PollEvent from a mutable slice, so command
// expectations can make notifications appear after their exchange.
type eventQueue struct {
	events []at.Event
}

func (q *eventQueue) push(events ...at.Event) {
	q.events = append(q.events, events...)
}

func (q *eventQueue) pop() (at.Event, bool) {
	if len(q.events) == 0 {
		return at.Event{}, false
	}
	event := q.events[0]
	q.events = q.events[1:]
	return event, true
}

func newMockAdapter(t *testing.T) (*wifi.MockClient, *eventQueue, *wifi.Adapter) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := wifi.NewMockClient(ctrl)
	queue := &eventQueue{}
	client.EXPECT().PollEvent().DoAndReturn(queue.pop).AnyTimes()

	adapter := wifi.NewWithClient(client, wifi.NewSystemTimer(), wifi.Config{})
	return client, queue, adapter
}

func TestNew(t *testing.T) {
	t.Run("ErrNoDialer without dialer", func(t *testing.T) {
		_, err := wifi.New(context.Background(), wifi.Config{})
		if !errors.Is(err, wifi.ErrNoDialer) {
			t.Errorf("expected ErrNoDialer, got: %v", err)
		}
	})

	t.Run("Dialer error is propagated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dialer := wifi.NewMockDialer(ctrl)
		dialErr := errors.New("port busy")
		dialer.EXPECT().Dial(gomock.Any()).Return(nil, dialErr)

		_, err := wifi.New(context.Background(), wifi.Config{Dialer: dialer})
		if !errors.Is(err, dialErr) {
			t.Errorf("expected dial error, got: %v", err)
		}
	})

	t.Run("Shutdown closes the dialed transport", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := wifi.NewMockTransport(ctrl)
		dialer := wifi.NewMockDialer(ctrl)
		dialer.EXPECT().Dial(gomock.Any()).Return(transport, nil)
		transport.EXPECT().Close().Return(nil)

		adapter, err := wifi.New(context.Background(), wifi.Config{Dialer: dialer})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := adapter.Shutdown(); err != nil {
			t.Errorf("unexpected error from Shutdown(): %v", err)
		}
	})
}

func TestJoin(t *testing.T) {
	t.Run("Returns connected state from notifications", func(t *testing.T) {
		client, queue, adapter := newMockAdapter(t)

		gomock.InOrder(
			client.EXPECT().Exec(at.CmdStationMode).Return(okResp(), nil),
			client.EXPECT().Exec(at.JoinAccessPoint("MySSID", "password123")).
				DoAndReturn(func(string) (wifi.Response, error) {
					queue.push(
						at.Event{Kind: at.EventWifiConnected},
						at.Event{Kind: at.EventGotIP},
					)
					return okResp(), nil
				}),
		)

		state, err := adapter.Join("MySSID", "password123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !state.Connected || !state.IPAssigned {
			t.Errorf("expected fully joined state, got %+v", state)
		}
	})

	t.Run("Disconnect notification clears the state", func(t *testing.T) {
		client, queue, adapter := newMockAdapter(t)

		gomock.InOrder(
			client.EXPECT().Exec(at.CmdStationMode).Return(okResp(), nil),
			client.EXPECT().Exec(at.JoinAccessPoint("MySSID", "secret")).
				DoAndReturn(func(string) (wifi.Response, error) {
					queue.push(
						at.Event{Kind: at.EventWifiConnected},
						at.Event{Kind: at.EventGotIP},
					)
					return okResp(), nil
				}),
		)

		if _, err := adapter.Join("MySSID", "secret"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		queue.push(at.Event{Kind: at.EventWifiDisconnected})
		state := adapter.JoinState()
		if state.Connected || state.IPAssigned {
			t.Errorf("expected disconnected state, got %+v", state)
		}
	})

	t.Run("Rejects oversize SSID before any command", func(t *testing.T) {
		_, _, adapter := newMockAdapter(t)

		_, err := adapter.Join(strings.Repeat("x", 33), "secret")
		if !errors.Is(err, wifi.ErrInvalidSSIDLength) {
			t.Errorf("expected ErrInvalidSSIDLength, got: %v", err)
		}
	})

	t.Run("Rejects oversize password before any command", func(t *testing.T) {
		_, _, adapter := newMockAdapter(t)

		_, err := adapter.Join("MySSID", strings.Repeat("x", 64))
		if !errors.Is(err, wifi.ErrInvalidPasswordLength) {
			t.Errorf("expected ErrInvalidPasswordLength, got: %v", err)
		}
	})

	t.Run("Station mode error is wrapped", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdStationMode).Return(wifi.Response{}, errors.New(at.ERROR))

		_, err := adapter.Join("MySSID", "secret")
		if err == nil || !strings.Contains(err.Error(), "set station mode") {
			t.Errorf("expected wrapped station mode error, got: %v", err)
		}
	})

	t.Run("Credentials error is wrapped", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		gomock.InOrder(
			client.EXPECT().Exec(at.CmdStationMode).Return(okResp(), nil),
			client.EXPECT().Exec(at.JoinAccessPoint("MySSID", "secret")).
				Return(wifi.Response{}, errors.New(at.ERROR)),
		)

		_, err := adapter.Join("MySSID", "secret")
		if err == nil || !strings.Contains(err.Error(), "set credentials") {
			t.Errorf("expected wrapped credentials error, got: %v", err)
		}
	})
}

func TestAddress(t *testing.T) {
	t.Run("All four records populated", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdObtainAddress).Return(okResp(
			`+CIFSR:STAIP,"10.0.0.5"`,
			`+CIFSR:STAIP6LL,"fe80::1"`,
			`+CIFSR:STAIP6GL,"2001:db8::1"`,
			`+CIFSR:STAMAC,"aa:bb:cc:dd:ee:ff"`,
		), nil)

		addr, err := adapter.Address()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if addr.IPv4 != netip.MustParseAddr("10.0.0.5") {
			t.Errorf("unexpected IPv4: %v", addr.IPv4)
		}
		if addr.IPv6LinkLocal != netip.MustParseAddr("fe80::1") {
			t.Errorf("unexpected link local IPv6: %v", addr.IPv6LinkLocal)
		}
		if addr.IPv6Global != netip.MustParseAddr("2001:db8::1") {
			t.Errorf("unexpected global IPv6: %v", addr.IPv6Global)
		}
		if addr.MAC != "aa:bb:cc:dd:ee:ff" {
			t.Errorf("unexpected MAC: %q", addr.MAC)
		}
	})

	t.Run("Unknown record tags are ignored", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdObtainAddress).Return(okResp(
			`+CIFSR:APIP,"192.168.4.1"`,
			`+CIFSR:STAIP,"10.0.0.5"`,
		), nil)

		addr, err := adapter.Address()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if addr.IPv4 != netip.MustParseAddr("10.0.0.5") {
			t.Errorf("unexpected IPv4: %v", addr.IPv4)
		}
		if addr.IPv6Global.IsValid() || addr.MAC != "" {
			t.Errorf("unexpected extra records: %+v", addr)
		}
	})

	t.Run("Oversize MAC is rejected", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdObtainAddress).Return(okResp(
			`+CIFSR:STAMAC,"aa:bb:cc:dd:ee:ff:00"`,
		), nil)

		_, err := adapter.Address()
		if !errors.Is(err, wifi.ErrAddressParse) {
			t.Errorf("expected ErrAddressParse, got: %v", err)
		}
	})

	t.Run("Malformed IP is rejected", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdObtainAddress).Return(okResp(
			`+CIFSR:STAIP,"not-an-ip"`,
		), nil)

		_, err := adapter.Address()
		if !errors.Is(err, wifi.ErrAddressParse) {
			t.Errorf("expected ErrAddressParse, got: %v", err)
		}
	})

	t.Run("Command error is wrapped", func(t *testing.T) {
		client, _, adapter := newMockAdapter(t)

		client.EXPECT().Exec(at.CmdObtainAddress).Return(wifi.Response{}, errors.New(at.ERROR))

		_, err := adapter.Address()
		if err == nil || !strings.Contains(err.Error(), "obtain local address") {
			t.Errorf("expected wrapped address error, got: %v", err)
		}
	})
}

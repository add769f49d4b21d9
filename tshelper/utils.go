package tshelper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/charmbracelet/log"
	"tailscale.com/client/local"
	"tailscale.com/tsnet"
)

// Identifier names the player behind a remote address.
type Identifier interface {
	Identify(ctx context.Context, remoteAddr string) (string, error)
}

type Listeners struct {
	ts *tsnet.Server

	Ssh, Http net.Listener

	// Client is only set on a tailnet.
	Client *local.Client
}

// NewListeners joins the tailnet as hostname and listens there.
func NewListeners(hostname string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{}
	l.ts = new(tsnet.Server)
	l.ts.Hostname = hostname

	var err error
	l.Ssh, err = l.ts.Listen("tcp", net.JoinHostPort("", fmt.Sprint(sshPort)))
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to start ssh listener: %w", err),
			l.Close(),
		)
	}

	l.Http, err = l.ts.Listen("tcp", net.JoinHostPort("", fmt.Sprint(httpPort)))
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to start http listener: %w", err),
			l.Close(),
		)
	}

	l.Client, err = l.ts.LocalClient()
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to create tsnet LocalClient(): %w", err),
			l.Close(),
		)
	}

	return l, nil
}

// NewLocalListeners listens on host without joining a tailnet. A zero
// httpPort disables the http listener.
func NewLocalListeners(host string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{}

	var err error
	l.Ssh, err = net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(sshPort)))
	if err != nil {
		return l, fmt.Errorf("failed to start ssh listener: %w", err)
	}

	if httpPort == 0 {
		return l, nil
	}

	l.Http, err = net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(httpPort)))
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to start http listener: %w", err),
			l.Close(),
		)
	}

	return l, nil
}

func (l Listeners) Tailnet() bool {
	return l.ts != nil
}

// WaitForAddr returns the address players should connect to. On a tailnet
// that is the node's IPv4 address once it has one.
func (l Listeners) WaitForAddr(ctx context.Context) (netip.Addr, error) {
	if l.ts == nil {
		ap, err := netip.ParseAddrPort(l.Ssh.Addr().String())
		if err != nil {
			return netip.Addr{}, fmt.Errorf("ssh listener address: %w", err)
		}
		return ap.Addr(), nil
	}

	var (
		t    = time.NewTicker(time.Second)
		done = ctx.Done()
	)
	defer t.Stop()

	for {
		select {
		case <-done:
			return netip.Addr{}, ctx.Err()

		case <-t.C:
			v4, _ := l.ts.TailscaleIPs()
			if v4.IsValid() {
				return v4, nil
			}
			log.Info("Waiting for tailscale IP")
		}
	}
}

// Identify returns the tailnet login name of remoteAddr. Off a tailnet it
// returns an empty name, callers fall back to what the session offers.
func (l Listeners) Identify(ctx context.Context, remoteAddr string) (string, error) {
	if l.Client == nil {
		return "", nil
	}

	who, err := l.Client.WhoIs(ctx, remoteAddr)
	if err != nil {
		return "", fmt.Errorf("tailscale WhoIs: %w", err)
	}
	if who.UserProfile == nil {
		return "", nil
	}
	return who.UserProfile.LoginName, nil
}

var _ Identifier = Listeners{}

func (l Listeners) Close() error {
	errs := make([]error, 0, 3)
	if l.Ssh != nil {
		errs = append(errs, l.Ssh.Close())
	}
	if l.Http != nil {
		errs = append(errs, l.Http.Close())
	}
	if l.ts != nil {
		errs = append(errs, l.ts.Close())
	}

	return errors.Join(errs...)
}

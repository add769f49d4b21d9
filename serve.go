// Package blokwell serves blokfall games over ssh and in the browser.
package blokwell

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/ghthor/gotty/v2/server"
	"github.com/ghthor/gotty/v2/utils"
	"golang.org/x/sync/errgroup"
)

const DefaultShutdownTimeout = 30 * time.Second

// RunSSH serves s on l in grp. A serve failure cancels the whole group.
func RunSSH(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, s *ssh.Server) error {
	if l == nil {
		return errors.New("ssh listener is nil")
	}

	grp.Go(func() error {
		if err := s.Serve(l); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			cancel(err)
			return err
		}
		return nil
	})

	return nil
}

// ShutdownSSH waits up to timeout for sessions to finish, then closes them.
func ShutdownSSH(s *ssh.Server, timeout time.Duration) error {
	if timeout == 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		if errors.Is(err, context.DeadlineExceeded) {
			return s.Close()
		}
		return err
	}
	return nil
}

// RunHTTP serves a browser terminal on l, one session per websocket created
// by fact.
func RunHTTP(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, fact server.Factory, title string) error {
	var (
		err        error
		appOptions = &server.Options{}
	)

	if err = utils.ApplyDefaultValues(appOptions); err != nil {
		return fmt.Errorf("gotty default options failure: %w", err)
	}
	appOptions.Preferences = &server.HtermPrefernces{}
	if err = utils.ApplyDefaultValues(appOptions.Preferences); err != nil {
		return fmt.Errorf("gotty default hterm preferences failure: %w", err)
	}
	appOptions.Preferences.EnableWebGL = true
	appOptions.PermitWrite = true
	if title != "" {
		appOptions.TitleFormat = title
	}

	if err = appOptions.Validate(); err != nil {
		return fmt.Errorf("gotty options validation failure: %w", err)
	}

	var gottySrv *server.Server
	gottySrv, err = server.New(fact, appOptions)
	if err != nil {
		return fmt.Errorf("error creating gotty server: %w", err)
	}

	grp.Go(func() error {
		if serr := gottySrv.Run(ctx, server.WithListener(l)); serr != nil && !errors.Is(serr, context.Canceled) {
			cancel(serr)
			return serr
		}
		return nil
	})

	return nil
}

package main

// blokwell serves a falling-block puzzle game. Every ssh session and every
// browser terminal gets its own game. With -tailscale the servers listen on a
// tailnet and players are named by their tailnet login.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/ghthor/blokwell"
	"github.com/ghthor/blokwell/bubbles/blokfall"
	"github.com/ghthor/blokwell/engine"
	"github.com/ghthor/blokwell/tshelper"
	"github.com/ghthor/blokwell/tstea"
	"golang.org/x/sync/errgroup"
)

type config struct {
	sshPort   int
	httpPort  int
	host      string
	hostname  string
	hostKey   string
	tailscale bool
	local     bool
	seed      uint64
}

func init() {
	switch os.Getenv("LIPGLOSS_LOG_FORMAT") {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	}

	if lv := os.Getenv("LOG_LEVEL"); lv != "" {
		level, err := log.ParseLevel(lv)
		if err != nil {
			log.Warn("ignoring LOG_LEVEL", "error", err)
		} else {
			log.SetLevel(level)
		}
	}
}

func main() {
	var cfg config
	flag.IntVar(&cfg.sshPort, "ssh-port", 23234, "port for ssh listener")
	flag.IntVar(&cfg.httpPort, "http-port", 28080, "port for http listener, 0 disables the browser terminal")
	flag.StringVar(&cfg.host, "host", "localhost", "address to listen on without -tailscale")
	flag.StringVar(&cfg.hostname, "hostname", "blokwell", "tailscale device hostname")
	flag.StringVar(&cfg.hostKey, "host-key", ".ssh/id_ed25519", "ssh host key path, generated when missing")
	flag.BoolVar(&cfg.tailscale, "tailscale", false, "listen on a tailnet instead of -host")
	flag.BoolVar(&cfg.local, "local", false, "play in this terminal instead of serving")
	flag.Uint64Var(&cfg.seed, "seed", 0, "piece sequence seed, 0 picks a random one")

	flag.Parse()

	if cfg.local {
		if err := runLocal(cfg); err != nil {
			log.Fatal("blokwell", "error", err)
		}
		return
	}

	if err := serve(cfg); err != nil {
		log.Fatal("blokwell", "error", err)
	}
}

func gameOptions(cfg config) []engine.Option {
	if cfg.seed == 0 {
		return nil
	}
	return []engine.Option{
		engine.WithRand(rand.New(rand.NewPCG(cfg.seed, cfg.seed))),
	}
}

func runLocal(cfg config) error {
	f, err := tea.LogToFile("blokwell.log", "")
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer f.Close()

	logger := log.New(f)
	logger.SetLevel(log.GetLevel())

	m := blokfall.New(
		blokfall.WithLogger(logger),
		blokfall.WithGameOptions(gameOptions(cfg)...),
	)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newModel(cfg config) tstea.NewModel {
	return func(ctx context.Context, sess tstea.Session, player string) tea.Model {
		return blokfall.New(
			blokfall.WithPlayer(player),
			blokfall.WithLogger(log.WithPrefix("blokfall").With("sess", sess.RemoteAddr().String())),
			blokfall.WithGameOptions(gameOptions(cfg)...),
		)
	}
}

func serve(cfg config) error {
	ctx, cancel := context.WithCancelCause(context.Background())
	rootCtx := ctx

	ctx, sigCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	grp, grpCtx := errgroup.WithContext(ctx)

	var (
		ls  tshelper.Listeners
		err error
	)
	if cfg.tailscale {
		ls, err = tshelper.NewListeners(cfg.hostname, cfg.sshPort, cfg.httpPort)
	} else {
		ls, err = tshelper.NewLocalListeners(cfg.host, cfg.sshPort, cfg.httpPort)
	}
	if err != nil {
		return fmt.Errorf("listeners: %w", err)
	}
	defer ls.Close()

	s, err := wish.NewServer(
		wish.WithHostKeyPath(cfg.hostKey),
		wish.WithMiddleware(
			tstea.WishMiddleware(ctx, ls, newModel(cfg), tstea.NewProgram),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("could not create SSH server: %w", err)
	}

	addr, err := ls.WaitForAddr(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for listen address: %w", err)
	}
	log.Info("Starting SSH server", "addr", net.JoinHostPort(addr.String(), fmt.Sprint(cfg.sshPort)), "tailnet", ls.Tailnet())

	err = blokwell.RunSSH(grpCtx, grp, cancel, ls.Ssh, s)
	if err == nil && ls.Http != nil {
		log.Infof("Starting HTTP server http://%s", net.JoinHostPort(addr.String(), fmt.Sprint(cfg.httpPort)))
		err = blokwell.RunHTTP(grpCtx, grp, cancel, ls.Http, tstea.NewTeaTYFactory(
			ctx, ls, newModel(cfg), tstea.NewProgram,
		), "blokwell")
	}
	if err != nil {
		cancel(err)
		sigCancel()
	}

	<-ctx.Done()
	if err = context.Cause(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server failure", "error", err)
	}

	log.Info("Stopping SSH server")
	if err = blokwell.ShutdownSSH(s, blokwell.DefaultShutdownTimeout); err != nil {
		log.Error("Could not stop server", "error", err)
	}

	if err = grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("error shutting down servers: %w", err)
	}
	return context.Cause(rootCtx)
}

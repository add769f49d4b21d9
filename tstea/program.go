package tstea

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/creack/pty"
	"github.com/ghthor/blokwell/ctxhelp"
	"github.com/ghthor/blokwell/tshelper"
	"github.com/ghthor/gotty/v2/server"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

type Session interface {
	RemoteAddr() net.Addr
}

// NewModel builds the model for one player's session.
type NewModel func(ctx context.Context, sess Session, player string) tea.Model
type NewTeaProgram func(context.Context, tea.Model, ...tea.ProgramOption) *tea.Program

// NewProgram runs m full screen until ctx is done.
func NewProgram(ctx context.Context, m tea.Model, opts ...tea.ProgramOption) *tea.Program {
	opts = append(opts,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	return tea.NewProgram(m, opts...)
}

// WishMiddleware starts one program per ssh session. The player is named by
// id, or by the ssh user when id has no name for the session.
func WishMiddleware(ctx context.Context, id tshelper.Identifier, newModel NewModel, newProg NewTeaProgram) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {
		_, _, active := s.Pty()
		if !active {
			wish.Fatalln(s, "no active terminal, skipping")
			return nil
		}

		player, err := id.Identify(s.Context(), s.RemoteAddr().String())
		if err != nil {
			wish.Fatalln(s, "identify error: ", err)
			return nil
		}
		if player == "" {
			player = s.User()
		}

		var (
			progCtx, _ = ctxhelp.Join(ctx, s.Context())
			m          = newModel(progCtx, s, player)
		)
		return newProg(progCtx, m, bubbletea.MakeOptions(s)...)
	}
	return bubbletea.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}

type TeaTYFactory struct {
	ctx context.Context
	id  tshelper.Identifier

	newModel NewModel
	newProg  NewTeaProgram
}

func NewTeaTYFactory(ctx context.Context, id tshelper.Identifier, newModel NewModel, newProg NewTeaProgram) *TeaTYFactory {
	return &TeaTYFactory{
		ctx: ctx,
		id:  id,

		newModel: newModel,
		newProg:  newProg,
	}
}

var _ server.Factory = &TeaTYFactory{}

func (*TeaTYFactory) Name() string { return "TeaTYFactory" }

func (f *TeaTYFactory) New(ctx context.Context, params map[string][]string, conn *websocket.Conn) (server.Slave, error) {
	ctx, cancel := ctxhelp.Join(f.ctx, ctx)

	raddr := conn.RemoteAddr().String()
	player, err := f.id.Identify(ctx, raddr)
	if err != nil {
		cancel(err)
		return nil, err
	}
	if player == "" {
		player = raddr
	}

	p, t, err := pty.Open()
	if err != nil {
		cancel(err)
		return nil, fmt.Errorf("failed to pty.Open(): %w", err)
	}

	m := f.newModel(ctx, conn, player)
	prog := f.newProg(ctx, m,
		tea.WithInput(t),
		tea.WithOutput(t),
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer func() {
			t.Close()
			p.Close()
			conn.Close()
		}()

		_, err := prog.Run()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tea.ErrProgramKilled) {
			cancel(err)
			return err
		}

		return nil
	})

	return &TeaTYProgram{
		ctx: grpCtx,
		pty: p,
		tty: t,

		grp:     grp,
		program: prog,
	}, nil
}

// TeaTYProgram is a browser terminal session backed by a pty pair.
type TeaTYProgram struct {
	ctx context.Context

	pty, tty *os.File

	grp     *errgroup.Group
	program *tea.Program
}

var _ server.Slave = &TeaTYProgram{}

func (t *TeaTYProgram) Read(p []byte) (n int, err error) {
	return t.pty.Read(p)
}

func (t *TeaTYProgram) Write(p []byte) (n int, err error) {
	return t.pty.Write(p)
}

func (t *TeaTYProgram) Close() error {
	t.tty.Close()
	t.pty.Close()
	t.program.Quit()
	return t.grp.Wait()
}

func (t *TeaTYProgram) WindowTitleVariables() map[string]any {
	return map[string]any{
		"command": "blokwell",
	}
}

func (t *TeaTYProgram) ResizeTerminal(width, height int) error {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: 0.0,
		Multiplier:          1.1,
		MaxInterval:         500 * time.Millisecond,
	}
	ws := &pty.Winsize{
		Cols: uint16(width),
		Rows: uint16(height),
	}
	_, err := backoff.Retry(t.ctx, func() (struct{}, error) {
		return struct{}{}, errors.Join(
			pty.Setsize(t.pty, ws),
			pty.Setsize(t.tty, ws),
		)
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(2*time.Second),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warn("pty resize", "error", err, "retrying", d)
		}),
	)
	if err != nil {
		log.Warn("pty resize retry exhausted", "error", err)
		return err
	}
	t.program.Send(tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	})
	return nil
}

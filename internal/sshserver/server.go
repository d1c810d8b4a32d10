package sshserver

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"tradeguard/internal/logger"
	"tradeguard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/rs/zerolog"
)

// Server serves the terminal dashboard to SSH clients.
type Server struct {
	srv       *ssh.Server
	dashboard tui.DashboardSource
	log       zerolog.Logger
}

func New(bind string, port int, hostKeyPath string, dashboard tui.DashboardSource) (*Server, error) {
	s := &Server{
		dashboard: dashboard,
		log:       logger.Component("ssh"),
	}
	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(bind, strconv.Itoa(port))),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return nil, err
	}
	s.srv = srv
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start blocks until ctx is cancelled, then shuts the listener down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("ssh dashboard listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	model := tui.NewAppModel(tui.Services{
		Dashboard: s.dashboard,
		Username:  sess.User(),
	})
	model.SetSize(pty.Window.Width, pty.Window.Height)

	go func() {
		<-sess.Context().Done()
		model.Close()
	}()

	s.log.Info().Str("user", sess.User()).Msg("ssh session opened")
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

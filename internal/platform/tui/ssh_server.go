package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/block-buddy/internal/config"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/session"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
	"github.com/vovakirdan/block-buddy/internal/storage"
)

// SSHServerConfig configures remote play.
type SSHServerConfig struct {
	Address string // listen address, e.g. ":23234"

	// HostKeyPath defaults to ~/.blockbuddy/host_key. Wish generates the key
	// when the file does not exist.
	HostKeyPath string

	// DBPath is the SQLite database holding every player's save.
	DBPath string

	// IdleTimeout disconnects players that send nothing for this long.
	IdleTimeout time.Duration

	Game    config.Config
	Catalog mission.Catalog
	Logger  *log.Logger // stderr when nil
}

// DefaultSSHServerConfig listens on :23234 with the default game config.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      filepath.Join("~/.blockbuddy", storage.DatabaseFile),
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
		Catalog:     mission.DefaultCatalog(),
	}
}

// SSHServer serves one build session per SSH connection. Each SSH user name
// maps to its own save profile.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

type playerKey struct{}

// player is the per-connection game state.
type player struct {
	id      string
	profile string
	session *session.Session
	hub     *settings.Hub
}

// NewSSHServer opens the save database and prepares the listener.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "buddy-ssh",
		})
	}
	if cfg.Catalog.Len() == 0 {
		cfg.Catalog = mission.DefaultCatalog()
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			store.Close()
			return nil, fmt.Errorf("resolve host key path: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".blockbuddy", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		store.Close()
		return nil, fmt.Errorf("create host key dir: %w", mkdirErr)
	}

	// Middleware runs last to first: logging wraps the player lifecycle,
	// which wraps the Bubble Tea program.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.playerMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create ssh server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// openPlayer loads the profile for an SSH user and starts its session.
func (s *SSHServer) openPlayer(ctx context.Context, user string) (*player, error) {
	profile := storage.SanitizeProfile(user)
	id := uuid.NewString()
	logger := s.logger.With("profile", profile, "session", id[:8])

	game := s.config.Game
	repo := s.store.Profile(profile, func() snapshot.WorldSnapshot {
		return snapshot.Default(s.config.Catalog.First(), game.Grid.Width, game.Grid.Height, time.Now())
	}, logger)

	hub := settings.NewHub(ctx, repo, logger)
	sess := session.New(session.OptionsFrom(game, s.config.Catalog, logger), repo, hub)
	if err := sess.Start(ctx); err != nil {
		hub.Close()
		return nil, err
	}
	return &player{id: id, profile: profile, session: sess, hub: hub}, nil
}

// playerMiddleware owns the session of one connection. The last save is
// written after the program exits.
func (s *SSHServer) playerMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		p, err := s.openPlayer(sshSession.Context(), sshSession.User())
		if err != nil {
			s.logger.Error("could not start session", "user", sshSession.User(), "error", err)
			wish.Fatalln(sshSession, "Sorry, your world could not be loaded right now.")
			return
		}
		sshSession.Context().SetValue(playerKey{}, p)

		next(sshSession)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.session.Close(ctx)
		p.hub.Close()
	}
}

// teaHandler builds the play screen for a connection that asked for a PTY.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("connection without pty", "user", sshSession.User())
		return nil, nil
	}
	p, ok := sshSession.Context().Value(playerKey{}).(*player)
	if !ok {
		return nil, nil
	}

	ctx := sshSession.Context()
	model := NewModel(ctx, p.session, p.hub, s.config.Catalog, ctx.Done(), s.logger.With("profile", p.profile))
	return model, ProgramOptions()
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		started := time.Now()
		remote := sshSession.RemoteAddr().String()
		s.logger.Info("player connected", "user", sshSession.User(), "remote", remote)
		next(sshSession)
		s.logger.Info("player left",
			"user", sshSession.User(),
			"remote", remote,
			"played", time.Since(started).Round(time.Second),
		)
	}
}

// ListenAndServe serves until ctx is cancelled or the listener fails, then
// shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.Shutdown()
	case err := <-errCh:
		closeErr := s.store.Close()
		if errors.Is(err, ssh.ErrServerClosed) {
			return closeErr
		}
		return errors.Join(err, closeErr)
	}
}

// Shutdown stops accepting connections, lets open sessions write their last
// save and then closes the database.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if closeErr := s.store.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// Addr is the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

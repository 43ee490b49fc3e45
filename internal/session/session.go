// Package session runs one player's game: it owns the live board, stars,
// mission and reward ledger, applies intents through the pure rule engines
// and hands snapshots to storage in the background.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/combo"
	"github.com/vovakirdan/block-buddy/internal/config"
	"github.com/vovakirdan/block-buddy/internal/core"
	"github.com/vovakirdan/block-buddy/internal/daily"
	"github.com/vovakirdan/block-buddy/internal/difficulty"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/reward"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Repository is the persistence collaborator.
type Repository interface {
	Load(ctx context.Context) (snapshot.WorldSnapshot, error)
	Save(ctx context.Context, s snapshot.WorldSnapshot) error
	ClearAll(ctx context.Context) error
}

// SettingsSource provides the live settings. *settings.Hub implements it.
type SettingsSource interface {
	Current() settings.Settings
	Subscribe() (<-chan settings.Settings, func())
}

// Start errors.
var (
	ErrAlreadyStarted = errors.New("session: already started")
	ErrClosed         = errors.New("session: closed")
)

// Options wire the rule engines and timers into a session.
type Options struct {
	Catalog      mission.Catalog
	GridWidth    int
	GridHeight   int
	UndoCapacity int
	Combo        combo.Engine
	Adjuster     difficulty.Adjuster
	WelcomeBack  reward.WelcomeBack
	IdleTick     time.Duration
	IdleNudge    time.Duration
	Now          func() time.Time // Defaults to time.Now
	Logger       *log.Logger
}

// OptionsFrom builds session options from the engine configuration.
func OptionsFrom(cfg config.Config, catalog mission.Catalog, logger *log.Logger) Options {
	return Options{
		Catalog:      catalog,
		GridWidth:    cfg.Grid.Width,
		GridHeight:   cfg.Grid.Height,
		UndoCapacity: cfg.Undo.Capacity,
		Combo:        combo.New(cfg.Combo.Window, cfg.Combo.Milestone),
		Adjuster:     difficulty.NewAdjuster(cfg.Difficulty.Thresholds),
		WelcomeBack:  reward.NewWelcomeBack(cfg.WelcomeBack.Window, cfg.WelcomeBack.BonusStars),
		IdleTick:     cfg.Session.IdleTick,
		IdleNudge:    cfg.Session.IdleNudge,
		Logger:       logger,
	}
}

// Session serializes every intent through one mutex, so no two intents run
// against the same state concurrently.
type Session struct {
	opts     Options
	repo     Repository
	settings SettingsSource
	logger   *log.Logger
	updates  *core.Mailbox[View]
	persist  *persister

	mu   sync.Mutex
	view View
	undo *world.UndoStack

	// Private counters; only ComboStreak is surfaced in the view.
	failedPlacements int
	hintUses         int
	idle             time.Duration
	claimed          bool
	lastPlacement    time.Time
	streak           int
	feedbackID       int64
	prevDaily        bool
	missionStarted   time.Time
	completion       *time.Duration

	started   bool
	closed    bool
	stopTasks context.CancelFunc
	tasks     sync.WaitGroup
	closeOnce sync.Once
}

// New creates a session in the loading phase. Call Start to load the save.
func New(opts Options, repo Repository, src SettingsSource) *Session {
	if opts.Catalog.Len() == 0 {
		opts.Catalog = mission.DefaultCatalog()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.GridWidth <= 0 || opts.GridHeight <= 0 {
		opts.GridWidth, opts.GridHeight = snapshot.DefaultWidth, snapshot.DefaultHeight
	}
	if opts.IdleTick <= 0 {
		opts.IdleTick = time.Second
	}
	if opts.IdleNudge <= 0 {
		opts.IdleNudge = 20 * time.Second
	}
	if opts.Combo == (combo.Engine{}) {
		opts.Combo = combo.New(0, 0)
	}
	if opts.WelcomeBack == (reward.WelcomeBack{}) {
		opts.WelcomeBack = reward.NewWelcomeBack(reward.DefaultWindow, reward.DefaultBonusStars)
	}
	if opts.Adjuster == (difficulty.Adjuster{}) {
		opts.Adjuster = difficulty.NewAdjuster(difficulty.DefaultThresholds())
	}

	first := opts.Catalog.First()
	empty := world.EmptyGrid(opts.GridWidth, opts.GridHeight)
	return &Session{
		opts:     opts,
		repo:     repo,
		settings: src,
		logger:   opts.Logger,
		updates:  core.NewMailbox[View](16),
		persist:  newPersister(repo, opts.Logger),
		undo:     world.NewUndoStack(opts.UndoCapacity),
		view: View{
			Phase:               PhaseLoading,
			World:               empty,
			SelectedBlock:       world.Grass,
			Mission:             first,
			Progress:            mission.Evaluate(empty, first),
			HintText:            HintStart,
			SafetyMessage:       SafetyMessage,
			Settings:            src.Current(),
			StickerBook:         []string{},
			CompletedMissionIDs: []string{},
			TodaysMissionTitle:  first.Title,
		},
	}
}

// FreshSnapshot returns the snapshot a brand-new player starts from.
func (s *Session) FreshSnapshot() snapshot.WorldSnapshot {
	return snapshot.Default(s.opts.Catalog.First(), s.opts.GridWidth, s.opts.GridHeight, s.opts.Now())
}

// Start loads the save, enters the ready phase and starts the idle ticker
// and the settings watcher.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.started:
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return fmt.Errorf("session: load: %w", err)
	}

	// Subscribe before reading Current so no change slips between the two.
	changes, unsubscribe := s.settings.Subscribe()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		unsubscribe()
		return ErrClosed
	}
	s.enterReady(snap, s.settings.Current())

	taskCtx, cancel := context.WithCancel(context.Background())
	s.stopTasks = func() {
		cancel()
		unsubscribe()
	}
	s.tasks.Add(2)
	go s.runIdleTicker(taskCtx)
	go s.watchSettings(taskCtx, changes)
	return nil
}

// enterReady applies a loaded snapshot. Caller holds s.mu.
func (s *Session) enterReady(snap snapshot.WorldSnapshot, current settings.Settings) {
	now := s.opts.Now()
	pool := s.opts.Catalog.All()

	active := snap.ActiveMission
	if current.DailyChallengeMode {
		if m, err := daily.MissionOfDay(pool, now.UnixMilli(), len(snap.CompletedMissionIDs)); err == nil {
			active = m
		} else {
			s.logger.Error("daily mission unavailable", "err", err)
		}
	}
	todays := active.Title
	if m, err := daily.MissionOfDay(pool, now.UnixMilli(), 0); err == nil {
		todays = m.Title
	}

	progress := mission.Evaluate(snap.World, active)
	// A mission finished before the reload must not pay out again.
	s.claimed = progress.Complete
	s.prevDaily = current.DailyChallengeMode
	s.missionStarted = now

	v := s.view
	v.Phase = PhaseReady
	v.World = snap.World
	v.Stars = snap.Stars
	v.Mission = active
	v.Progress = progress
	v.HintText = mission.NextHint(progress, active)
	v.Settings = current
	v.StickerBook = slices.Clone(snap.StickerBook)
	v.CompletedMissionIDs = slices.Clone(snap.CompletedMissionIDs)
	v.TodaysMissionTitle = todays

	out := s.opts.WelcomeBack.Evaluate(snap.Stars, snap.UpdatedAt(), now)
	if out.Granted {
		v.Stars = out.StarsAfterReward
		v.HintText = out.HintText
		s.logger.Info("welcome back reward", "bonus", out.BonusStars, "away", now.Sub(snap.UpdatedAt()).Round(time.Minute))
	}
	s.publish(v)
	if out.Granted {
		s.persistLocked()
	}
}

// Handle applies one intent and returns the resulting view.
func (s *Session) Handle(in Intent) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view.Phase != PhaseReady {
		if sc, ok := in.(SettingsChanged); ok {
			s.prevDaily = sc.Settings.DailyChallengeMode
			v := s.view
			v.Settings = sc.Settings
			s.publish(v)
		}
		return s.view
	}

	defer func() {
		if resetsIdle(in) {
			s.idle = 0
		}
	}()

	switch in := in.(type) {
	case SelectBlock:
		s.selectBlock(in.Type)
	case ToggleErase:
		v := s.view
		v.EraseMode = !v.EraseMode
		s.publish(v)
	case PlaceAt:
		s.placeAt(in.Pos)
	case Undo:
		s.undoLast()
	case RequestHint:
		s.requestHint()
	case NextMission:
		s.nextMission()
	case LoadDailyPrompt:
		s.loadDailyPrompt()
	case DismissCelebration:
		v := s.view
		v.Celebration = nil
		s.publish(v)
	case ConsumeFeedback:
		if s.view.Feedback != nil && s.view.Feedback.ID == in.ID {
			v := s.view
			v.Feedback = nil
			s.publish(v)
		}
	case ResetProgress:
		s.resetProgress()
	case SettingsChanged:
		s.settingsChanged(in.Settings)
	}
	return s.view
}

// resetsIdle reports whether the intent came from the player. Settings
// updates and feedback expiry arrive on their own and leave idle time alone.
func resetsIdle(in Intent) bool {
	switch in.(type) {
	case SettingsChanged, ConsumeFeedback:
		return false
	default:
		return true
	}
}

// View returns the latest published view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Updates delivers every published view. Slow readers only miss
// intermediate views, never the ability to catch up.
func (s *Session) Updates() <-chan View {
	return s.updates.Values()
}

// Snapshot returns the live state as a snapshot stamped with the current time.
func (s *Session) Snapshot() snapshot.WorldSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Flush waits until every requested write has finished.
func (s *Session) Flush() {
	s.persist.flush()
}

// Close stops the background tasks and writes the last pending snapshot.
// If ctx ends first the pending write is cancelled.
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		stop := s.stopTasks
		s.mu.Unlock()

		if stop != nil {
			stop()
		}
		s.tasks.Wait()
		s.persist.close(ctx)
		s.updates.Close()
	})
}

func (s *Session) publish(v View) {
	s.view = v
	s.updates.Send(v)
}

func (s *Session) nextFeedback(kind FeedbackKind) *Feedback {
	s.feedbackID++
	return &Feedback{ID: s.feedbackID, Kind: kind}
}

func (s *Session) snapshotLocked() snapshot.WorldSnapshot {
	return snapshot.WorldSnapshot{
		World:               s.view.World,
		Stars:               s.view.Stars,
		ActiveMission:       s.view.Mission,
		CompletedMissionIDs: slices.Clone(s.view.CompletedMissionIDs),
		StickerBook:         slices.Clone(s.view.StickerBook),
		UpdatedAtEpochMs:    s.opts.Now().UnixMilli(),
	}
}

func (s *Session) persistLocked() {
	s.persist.submit(persistOp{snap: s.snapshotLocked()})
}

package session

import (
	"fmt"
	"time"

	"github.com/vovakirdan/block-buddy/internal/daily"
	"github.com/vovakirdan/block-buddy/internal/difficulty"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// All handlers run with s.mu held.

func (s *Session) selectBlock(t world.BlockType) {
	if t == world.Empty || !t.Valid() {
		return
	}
	v := s.view
	v.SelectedBlock = t
	v.EraseMode = false
	s.publish(v)
}

func (s *Session) placeAt(pos world.GridPosition) {
	v := s.view

	var result world.PlacementResult
	if v.EraseMode {
		result = world.RemoveBlock(v.World, pos)
	} else {
		result = world.PlaceBlock(v.World, pos, v.SelectedBlock)
	}

	switch r := result.(type) {
	case world.Placed:
		s.placed(pos, r)
	case world.OutOfBounds, world.UnsupportedPlacement:
		s.failedPlacements++
		s.streak = 0
		s.lastPlacement = time.Time{}
		v.ComboStreak = 0
		v.HintText = HintFailed
		v.Feedback = s.nextFeedback(FeedbackPlaceError)
		s.publish(v)
	}
}

func (s *Session) placed(pos world.GridPosition, r world.Placed) {
	v := s.view
	s.undo.Push(v.World)

	now := s.opts.Now()
	outcome := s.opts.Combo.RegisterPlacement(now, s.lastPlacement, s.streak)
	s.streak = outcome.Streak
	s.lastPlacement = now

	progress := mission.Evaluate(r.Updated, v.Mission)
	var celebration *Celebration
	missionStars := 0

	if progress.Complete && !s.claimed {
		s.claimed = true
		elapsed := now.Sub(s.missionStarted)
		s.completion = &elapsed

		m := v.Mission
		// Mission stars are paid once per mission id; stickers are append-once.
		completed, firstTime := snapshot.AddUnique(v.CompletedMissionIDs, m.ID)
		if firstTime {
			missionStars = m.RewardStars
		}
		book, unlocked := snapshot.AddUnique(v.StickerBook, m.StickerReward)
		sticker := ""
		if unlocked {
			sticker = m.StickerReward
		}
		v.CompletedMissionIDs = completed
		v.StickerBook = book

		celebration = &Celebration{
			MissionTitle:    m.Title,
			StarsEarned:     missionStars,
			ComboBonus:      outcome.BonusStars,
			StickerUnlocked: sticker,
			CheerLine:       m.CelebrationLine,
		}
		s.logger.Info("mission complete", "mission", m.ID, "stars", missionStars, "sticker", sticker)
	}

	kind := FeedbackPlaceSuccess
	switch {
	case celebration != nil:
		kind = FeedbackMissionComplete
	case outcome.BonusStars > 0:
		kind = FeedbackCombo
	}

	if outcome.BonusStars > 0 {
		v.HintText = comboHint(outcome.Streak)
	} else {
		v.HintText = mission.NextHint(progress, v.Mission)
	}

	p := pos
	v.World = r.Updated
	v.Stars += missionStars + outcome.BonusStars
	v.Progress = progress
	v.ComboStreak = outcome.Streak
	v.LastChanged = &p
	if celebration != nil {
		v.Celebration = celebration
	}
	v.Feedback = s.nextFeedback(kind)
	s.publish(v)
	s.persistLocked()
}

// undoLast restores the previous board. Rewards already paid stay paid.
func (s *Session) undoLast() {
	prev, ok := s.undo.Pop()
	if !ok {
		return
	}
	s.streak = 0
	s.lastPlacement = time.Time{}

	v := s.view
	v.World = prev
	v.Progress = mission.Evaluate(prev, v.Mission)
	v.HintText = mission.NextHint(v.Progress, v.Mission)
	v.ComboStreak = 0
	v.LastChanged = nil
	s.publish(v)
	s.persistLocked()
}

// requestHint reads the idle signal before Handle clears it.
func (s *Session) requestHint() {
	s.hintUses++
	rec := s.opts.Adjuster.Recommend(difficulty.Signals{
		FailedPlacements: s.failedPlacements,
		HintUses:         s.hintUses,
		Idle:             s.idle,
		Completion:       s.completion,
	})

	v := s.view
	v.Recommendation = rec
	v.HintText = mission.NextHint(v.Progress, v.Mission)
	if rec.HighlightBlueprint && v.Settings.BlueprintAssist {
		v.HintText += HintBlueprint
	}
	s.publish(v)
}

func (s *Session) missionOfDay() (mission.Card, bool) {
	m, err := daily.MissionOfDay(s.opts.Catalog.All(), s.opts.Now().UnixMilli(), len(s.view.CompletedMissionIDs))
	if err != nil {
		s.logger.Error("daily mission unavailable", "err", err)
		return mission.Card{}, false
	}
	return m, true
}

func (s *Session) nextMission() {
	var next mission.Card
	if s.view.Settings.DailyChallengeMode {
		m, ok := s.missionOfDay()
		if !ok {
			return
		}
		next = m
	} else {
		m, err := daily.NextMissionLinear(s.view.Mission, s.opts.Catalog.All())
		if err != nil {
			s.logger.Error("next mission unavailable", "err", err)
			return
		}
		next = m
	}
	s.activate(next, fmt.Sprintf(missionHintFormat, next.Title))
}

func (s *Session) loadDailyPrompt() {
	m, ok := s.missionOfDay()
	if !ok {
		return
	}
	fresh := world.EmptyGrid(s.view.World.Width(), s.view.World.Height())
	hint := mission.NextHint(mission.Evaluate(fresh, m), m)
	s.activate(m, fmt.Sprintf(dailyHintFormat, m.Title, hint))
}

// activate switches to m on an empty board of the same size.
func (s *Session) activate(m mission.Card, hint string) {
	s.claimed = false
	s.streak = 0
	s.lastPlacement = time.Time{}
	s.completion = nil
	s.missionStarted = s.opts.Now()
	s.undo.Clear()

	v := s.view
	fresh := world.EmptyGrid(v.World.Width(), v.World.Height())
	v.World = fresh
	v.Mission = m
	v.Progress = mission.Evaluate(fresh, m)
	v.HintText = hint
	v.ComboStreak = 0
	v.Celebration = nil
	v.LastChanged = nil
	s.publish(v)
	s.persistLocked()
	s.logger.Debug("mission activated", "mission", m.ID)
}

func (s *Session) resetProgress() {
	s.persist.submit(persistOp{clear: true})
	s.undo.Clear()
	s.failedPlacements = 0
	s.hintUses = 0
	s.idle = 0
	s.claimed = false
	s.streak = 0
	s.lastPlacement = time.Time{}
	s.completion = nil
	s.missionStarted = s.opts.Now()

	fresh := s.FreshSnapshot()
	v := s.view
	v.World = fresh.World
	v.Stars = 0
	v.Mission = fresh.ActiveMission
	v.Progress = mission.Evaluate(fresh.World, fresh.ActiveMission)
	v.HintText = HintReset
	v.Recommendation = difficulty.Recommendation{}
	v.StickerBook = []string{}
	v.CompletedMissionIDs = []string{}
	v.ComboStreak = 0
	v.Celebration = nil
	v.LastChanged = nil
	s.publish(v)
	s.logger.Info("progress reset")
}

// settingsChanged tracks the previous daily flag itself to detect the
// off to on edge.
func (s *Session) settingsChanged(next settings.Settings) {
	edge := !s.prevDaily && next.DailyChallengeMode
	s.prevDaily = next.DailyChallengeMode

	v := s.view
	v.Settings = next
	s.publish(v)
	if edge {
		s.loadDailyPrompt()
	}
}

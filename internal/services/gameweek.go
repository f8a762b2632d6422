package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"fpl-go-dashboard/internal/logging"
)

// GameweekSource looks up the current gameweek
type GameweekSource interface {
	CurrentGameweek(ctx context.Context) (int, error)
}

// GameweekService owns the application-wide current gameweek. The first
// successful lookup is kept for the life of the process and never
// invalidated; failed lookups are not remembered, so a later call retries.
// Concurrent callers share one lookup.
type GameweekService struct {
	source  GameweekSource
	timeout time.Duration
	log     *logrus.Entry
	group   singleflight.Group

	mu sync.RWMutex
	gw int
}

func NewGameweekService(source GameweekSource, timeout time.Duration) *GameweekService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GameweekService{
		source:  source,
		timeout: timeout,
		log:     logging.WithComponent("gameweek"),
	}
}

// Current returns the current gameweek, looking it up on first use. A caller
// whose ctx ends stops waiting; the shared lookup carries on for the others.
func (s *GameweekService) Current(ctx context.Context) (int, bool) {
	if gw, ok := s.Cached(); ok {
		return gw, true
	}

	ch := s.group.DoChan("current", func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		gw, err := s.source.CurrentGameweek(lookupCtx)
		if err != nil {
			return 0, err
		}
		s.mu.Lock()
		s.gw = gw
		s.mu.Unlock()
		s.log.WithField("gameweek", gw).Info("Current gameweek resolved")
		return gw, nil
	})

	select {
	case <-ctx.Done():
		return 0, false
	case res := <-ch:
		if res.Err != nil {
			s.log.WithError(res.Err).Debug("Current gameweek unavailable")
			return 0, false
		}
		return res.Val.(int), true
	}
}

// Cached returns the gameweek without a lookup
func (s *GameweekService) Cached() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gw, s.gw > 0
}

// Placeholders shown when the gameweek is unknown or still loading
const (
	LoadingLabel     = "···"
	UnknownGWShort   = "—"
	UnknownGWLong    = "Premier League"
	liveFixturesText = "Live fixtures"
)

// GameweekLabels are the top-bar and sidebar captions derived from the gameweek
type GameweekLabels struct {
	Long  string `json:"long"`
	Short string `json:"short"`
	Live  string `json:"live"`
}

// LabelsFor renders captions for gw. ok=false means the lookup failed.
func LabelsFor(gw int, ok, loading bool) GameweekLabels {
	switch {
	case loading:
		return GameweekLabels{Long: LoadingLabel, Short: LoadingLabel, Live: LoadingLabel}
	case !ok || gw <= 0:
		return GameweekLabels{Long: UnknownGWLong, Short: UnknownGWShort, Live: liveFixturesText}
	}
	short := fmt.Sprintf("GW%d", gw)
	return GameweekLabels{
		Long:  fmt.Sprintf("Gameweek %d", gw),
		Short: short,
		Live:  liveFixturesText + " · " + short,
	}
}

// Labels looks up the gameweek and renders its captions
func (s *GameweekService) Labels(ctx context.Context) GameweekLabels {
	gw, ok := s.Current(ctx)
	return LabelsFor(gw, ok, false)
}

package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/models"
)

// FeedBackend is the part of the API client the supplementary feeds read from
type FeedBackend interface {
	News(ctx context.Context) ([]models.NewsItem, error)
	Fixtures(ctx context.Context, gameweek int) ([]models.Fixture, error)
	LeagueTable(ctx context.Context) ([]models.TableRow, error)
}

// FeedObserver is told which source served each feed read
type FeedObserver interface {
	ObserveFeed(feed string, source models.FeedSource)
}

// Feed names, also used as snapshot keys
const (
	FeedNews     = "news"
	FeedFixtures = "fixtures"
	FeedTable    = "table"
)

// FeedService serves the non-critical sidebar feeds. A read never fails: when
// the backend errors or returns nothing, the last live snapshot is served,
// and failing that the bundled static data.
type FeedService struct {
	backend   FeedBackend
	gameweeks *GameweekService
	snapshots *SnapshotStore
	observer  FeedObserver
	log       *logrus.Entry
}

func NewFeedService(backend FeedBackend, gameweeks *GameweekService, snapshots *SnapshotStore, observer FeedObserver) *FeedService {
	return &FeedService{
		backend:   backend,
		gameweeks: gameweeks,
		snapshots: snapshots,
		observer:  observer,
		log:       logging.WithComponent("feeds"),
	}
}

// News returns the latest headlines
func (s *FeedService) News(ctx context.Context) models.Feed[models.NewsItem] {
	return readFeed(ctx, s, FeedNews, s.backend.News, StaticNews)
}

// Fixtures returns the score cards of the current gameweek. When the gameweek
// is unknown the backend picks one.
func (s *FeedService) Fixtures(ctx context.Context) models.Feed[models.Fixture] {
	gw := 0
	if s.gameweeks != nil {
		gw, _ = s.gameweeks.Current(ctx)
	}
	fetch := func(ctx context.Context) ([]models.Fixture, error) {
		return s.backend.Fixtures(ctx, gw)
	}
	return readFeed(ctx, s, FeedFixtures, fetch, StaticFixtures)
}

// Table returns the league standings
func (s *FeedService) Table(ctx context.Context) models.Feed[models.TableRow] {
	return readFeed(ctx, s, FeedTable, s.backend.LeagueTable, StaticTable)
}

func readFeed[T any](
	ctx context.Context,
	s *FeedService,
	name string,
	fetch func(context.Context) ([]T, error),
	fallback func() []T,
) models.Feed[T] {
	feed := resolveFeed(ctx, s, name, fetch, fallback)
	if s.observer != nil {
		s.observer.ObserveFeed(name, feed.Source)
	}
	return feed
}

func resolveFeed[T any](
	ctx context.Context,
	s *FeedService,
	name string,
	fetch func(context.Context) ([]T, error),
	fallback func() []T,
) models.Feed[T] {
	log := s.log.WithField("feed", name)

	items, err := fetch(ctx)
	switch {
	case err != nil:
		log.WithError(err).Debug("Live feed unavailable")
	case len(items) == 0:
		log.Debug("Live feed empty")
	default:
		if s.snapshots != nil {
			if err := s.snapshots.Save(ctx, name, items); err != nil {
				log.WithError(err).Warn("Failed to store feed snapshot")
			}
		}
		return models.Feed[T]{Items: items, Source: models.SourceLive, FetchedAt: time.Now()}
	}

	if s.snapshots != nil {
		var cached []T
		// The request context may already be done; snapshots are local reads.
		if savedAt, ok := s.snapshots.Load(context.WithoutCancel(ctx), name, &cached); ok && len(cached) > 0 {
			return models.Feed[T]{Items: cached, Source: models.SourceSnapshot, FetchedAt: savedAt}
		}
	}
	return models.Feed[T]{Items: fallback(), Source: models.SourceStatic}
}

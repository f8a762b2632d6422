// Package layout holds the dashboard frame around the pages: navigation, the
// selected club, the top bar and both sidebars.
package layout

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/services"
)

// Page identifies a dashboard page
type Page string

const (
	PageHome      Page = "home"
	PageSquad     Page = "squad"
	PagePicks     Page = "picks"
	PageOptimal   Page = "optimal"
	PageTransfers Page = "transfers"
	PageInsights  Page = "insights"
)

// NavEntry is one item of the navigation bar
type NavEntry struct {
	ID    Page   `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Nav is the navigation bar, in display order
var Nav = []NavEntry{
	{ID: PageHome, Label: "Gameweek Hub", Icon: "🏟"},
	{ID: PageSquad, Label: "My Squad", Icon: "⚽"},
	{ID: PagePicks, Label: "Top Picks", Icon: "🎯"},
	{ID: PageOptimal, Label: "Optimal Squad", Icon: "🧮"},
	{ID: PageTransfers, Label: "Transfers", Icon: "🔁"},
	{ID: PageInsights, Label: "Model Insights", Icon: "📈"},
}

// ParsePage resolves a page id from a URL segment
func ParsePage(s string) (Page, error) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, e := range Nav {
		if e.ID == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", s)
}

// Title returns the nav label of p
func (p Page) Title() string {
	for _, e := range Nav {
		if e.ID == p {
			return e.Label
		}
	}
	return string(p)
}

// ShellState is the per-session layout state
type ShellState struct {
	Active Page   `json:"active"`
	Club   string `json:"club,omitempty"`
}

// Shell tracks the active page and the selected club of one session. The
// club only affects what the frame highlights; pages never see it.
type Shell struct {
	mu    sync.RWMutex
	state ShellState
}

func NewShell() *Shell {
	return &Shell{state: ShellState{Active: PageHome}}
}

func (s *Shell) State() ShellState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Navigate makes p the active page
func (s *Shell) Navigate(p Page) {
	s.mu.Lock()
	s.state.Active = p
	s.mu.Unlock()
}

// SelectClub sets the selected club by short name. Selecting the same club
// again clears the selection.
func (s *Shell) SelectClub(short string) {
	short = strings.ToUpper(strings.TrimSpace(short))
	s.mu.Lock()
	defer s.mu.Unlock()
	if short == "" || short == s.state.Club {
		s.state.Club = ""
		return
	}
	s.state.Club = short
}

// NavItem is a nav entry rendered for the active page
type NavItem struct {
	NavEntry
	Active bool `json:"active"`
}

// ClubEntry is one club in the left sidebar
type ClubEntry struct {
	Short    string     `json:"short"`
	Name     string     `json:"name"`
	Position int        `json:"pos"`
	Points   int        `json:"pts"`
	Kit      models.Kit `json:"kit"`
	Selected bool       `json:"selected"`
}

// Frame is everything rendered around a page
type Frame struct {
	State    ShellState                    `json:"state"`
	Title    string                        `json:"title"`
	Nav      []NavItem                     `json:"nav"`
	Gameweek services.GameweekLabels       `json:"gameweek"`
	Leagues  []models.League               `json:"leagues"`
	Clubs    []ClubEntry                   `json:"clubs"`
	News     models.Feed[models.NewsItem]  `json:"news"`
	Fixtures models.Feed[models.Fixture]   `json:"fixtures"`
	Table    models.Feed[models.TableRow]  `json:"table"`
}

// Composer builds frames from the application-wide services
type Composer struct {
	gameweeks *services.GameweekService
	feeds     *services.FeedService
}

func NewComposer(gameweeks *services.GameweekService, feeds *services.FeedService) *Composer {
	return &Composer{gameweeks: gameweeks, feeds: feeds}
}

// Frame renders the frame for state. Feed reads never fail, so neither does
// this.
func (c *Composer) Frame(ctx context.Context, state ShellState) Frame {
	f := Frame{
		State:   state,
		Title:   state.Active.Title(),
		Nav:     navFor(state.Active),
		Leagues: services.Leagues(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.Gameweek = c.gameweeks.Labels(gctx)
		return nil
	})
	g.Go(func() error {
		f.News = c.feeds.News(gctx)
		return nil
	})
	g.Go(func() error {
		f.Fixtures = c.feeds.Fixtures(gctx)
		return nil
	})
	g.Go(func() error {
		f.Table = c.feeds.Table(gctx)
		return nil
	})
	_ = g.Wait()

	f.Clubs = clubsFrom(f.Table.Items, state.Club)
	f.Fixtures.Items = fixturesFor(f.Fixtures.Items, state.Club)
	return f
}

func navFor(active Page) []NavItem {
	items := make([]NavItem, len(Nav))
	for i, e := range Nav {
		items[i] = NavItem{NavEntry: e, Active: e.ID == active}
	}
	return items
}

// clubsFrom lists clubs by table position with their kit colours
func clubsFrom(rows []models.TableRow, selected string) []ClubEntry {
	clubs := make([]ClubEntry, 0, len(rows))
	for _, r := range rows {
		kit := r.Kit
		if kit == "" {
			kit = r.Short
		}
		clubs = append(clubs, ClubEntry{
			Short:    r.Short,
			Name:     r.Name,
			Position: r.Position,
			Points:   r.Points,
			Kit:      services.KitFor(kit),
			Selected: selected != "" && r.Short == selected,
		})
	}
	sort.SliceStable(clubs, func(i, j int) bool { return clubs[i].Position < clubs[j].Position })
	return clubs
}

// fixturesFor narrows score cards to the selected club. With no selection, or
// no fixture involving the club, every card is kept.
func fixturesFor(fixtures []models.Fixture, club string) []models.Fixture {
	if club == "" {
		return fixtures
	}
	var matched []models.Fixture
	for _, f := range fixtures {
		if f.HomeShort == club || f.AwayShort == club {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return fixtures
	}
	return matched
}

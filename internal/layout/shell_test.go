package layout

import (
	"context"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/services"
	"fpl-go-dashboard/pkg/fplapi"
)

const testBaseURL = "http://fpl.test/api"

func init() {
	logging.Discard()
}

func newComposer(t *testing.T) (*Composer, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	client := fplapi.NewClient(testBaseURL, 0)
	client.HTTP.Transport = mt

	gameweeks := services.NewGameweekService(client, time.Second)
	feeds := services.NewFeedService(client, gameweeks, services.NewMemorySnapshotStore(time.Hour), nil)
	return NewComposer(gameweeks, feeds), mt
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage(" Picks ")
	require.NoError(t, err)
	assert.Equal(t, PagePicks, p)

	_, err = ParsePage("india")
	assert.Error(t, err)
}

func TestShell_DefaultsAndClubToggle(t *testing.T) {
	s := NewShell()
	assert.Equal(t, ShellState{Active: PageHome}, s.State())

	s.Navigate(PageTransfers)
	s.SelectClub("ars")
	assert.Equal(t, ShellState{Active: PageTransfers, Club: "ARS"}, s.State())

	s.SelectClub("ARS")
	assert.Empty(t, s.State().Club)
}

func TestComposer_BackendDown(t *testing.T) {
	c, mt := newComposer(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}))

	f := c.Frame(context.Background(), ShellState{Active: PagePicks})

	assert.Equal(t, "Top Picks", f.Title)
	assert.Equal(t, "Premier League", f.Gameweek.Long)
	assert.Equal(t, "—", f.Gameweek.Short)
	assert.Equal(t, models.SourceStatic, f.News.Source)
	assert.Equal(t, models.SourceStatic, f.Fixtures.Source)
	assert.NotEmpty(t, f.News.Items)
	assert.NotEmpty(t, f.Fixtures.Items)

	active := 0
	for _, item := range f.Nav {
		if item.Active {
			active++
			assert.Equal(t, PagePicks, item.ID)
		}
	}
	assert.Equal(t, 1, active)

	require.Len(t, f.Clubs, 20)
	for i := 1; i < len(f.Clubs); i++ {
		assert.LessOrEqual(t, f.Clubs[i-1].Position, f.Clubs[i].Position)
	}
	assert.Equal(t, "ARS", f.Clubs[0].Short)
	assert.Equal(t, "#EF0107", f.Clubs[0].Kit.Primary)
}

func TestComposer_LiveGameweekAndClubFilter(t *testing.T) {
	c, mt := newComposer(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/current-gw",
		httpmock.NewStringResponder(http.StatusOK, `{"gameweek": 27}`))
	mt.RegisterNoResponder(httpmock.NewStringResponder(http.StatusServiceUnavailable, ``))

	f := c.Frame(context.Background(), ShellState{Active: PageHome, Club: "LIV"})
	assert.Equal(t, "Gameweek 27", f.Gameweek.Long)
	assert.Equal(t, "GW27", f.Gameweek.Short)

	require.Len(t, f.Fixtures.Items, 1)
	assert.Equal(t, "LIV", f.Fixtures.Items[0].HomeShort)

	for _, club := range f.Clubs {
		assert.Equal(t, club.Short == "LIV", club.Selected)
	}
}

func TestFixturesFor_UnknownClubKeepsAll(t *testing.T) {
	all := services.StaticFixtures()
	assert.Equal(t, all, fixturesFor(all, "SOU"))
	assert.Equal(t, all, fixturesFor(all, ""))
}

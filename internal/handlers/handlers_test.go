package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/pages"
	"fpl-go-dashboard/internal/services"
	"fpl-go-dashboard/pkg/fplapi"
)

const testBaseURL = "http://fpl.test/api"

var connRefused = &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

func init() {
	logging.Discard()
}

func newTestApp(t *testing.T) (*fiber.App, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	client := fplapi.NewClient(testBaseURL, 0)
	client.HTTP.Transport = mt

	gameweeks := services.NewGameweekService(client, time.Second)
	feeds := services.NewFeedService(client, gameweeks, services.NewMemorySnapshotStore(time.Hour), nil)
	composer := layout.NewComposer(gameweeks, feeds)
	registry := pages.NewRegistry(client, pages.VariantClassic, nil, time.Hour)
	t.Cleanup(registry.Close)

	renderer, err := NewRenderer()
	require.NoError(t, err)

	routes := &Routes{
		Health:   NewHealthHandler(client, testBaseURL, false, "test"),
		Pages:    NewPageHandler(composer, renderer, 5*time.Second),
		Feeds:    NewFeedHandler(feeds),
		Shell:    NewShellHandler(composer),
		Sessions: NewSessions(registry, time.Hour, false),
	}
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	routes.Register(app)
	return app, mt
}

// browser keeps the session cookie between requests
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	if b.cookie != "" {
		req.Header.Set("Cookie", b.cookie)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			b.cookie = c.Name + "=" + c.Value
		}
	}
	return resp
}

func (b *browser) postJSON(path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	return b.do(req)
}

func (b *browser) postForm(path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func decodeView[V any](t *testing.T, resp *http.Response) V {
	t.Helper()
	var body struct {
		Page layout.Page     `json:"page"`
		View json.RawMessage `json:"view"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	var v V
	require.NoError(t, json.Unmarshal(body.View, &v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

const squadJSON = `{
	"gameweek": 27, "itb": 1.3, "free_transfers": 2,
	"players": [
		{"player_id": 1, "web_name": "Raya", "team_name": "Arsenal", "position": "GK", "price": 5.5, "predicted_pts": 4.0},
		{"player_id": 3, "web_name": "Saliba", "team_name": "Arsenal", "position": "DEF", "price": 6.1, "predicted_pts": 4.7},
		{"player_id": 6, "web_name": "Salah", "team_name": "Liverpool", "position": "MID", "price": 13.2, "predicted_pts": 8.1},
		{"player_id": 10, "web_name": "Isak", "team_name": "Newcastle", "position": "FWD", "price": 8.8, "predicted_pts": 6.1}
	]
}`

func TestHealth(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	b := &browser{t: t, app: app}

	resp := b.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.get("/health/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ready map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	assert.Equal(t, "degraded", ready["status"])
	assert.Contains(t, ready["detail"], "Start the API server")
}

func TestFeeds_BackendDownServesStatic(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	b := &browser{t: t, app: app}

	resp := b.get("/api/v1/feeds/news")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed models.Feed[models.NewsItem]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	assert.Equal(t, models.SourceStatic, feed.Source)
	assert.Equal(t, services.StaticNews(), feed.Items)
}

func TestRender_HomeWithBackendDown(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	b := &browser{t: t, app: app}

	resp := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.NotEmpty(t, b.cookie, "a session cookie is issued")

	html := readBody(t, resp)
	assert.Contains(t, html, "Premier League")
	assert.Contains(t, html, "Palmer overtakes Haaland")
	assert.Contains(t, html, "Top Pick This GW")
	assert.Contains(t, html, "static data")
}

func TestRender_UnknownPage(t *testing.T) {
	app, _ := newTestApp(t)
	b := &browser{t: t, app: app}

	resp := b.get("/pages/india")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRender_EveryPage(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	b := &browser{t: t, app: app}

	for _, e := range layout.Nav {
		resp := b.get("/pages/" + string(e.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode, e.ID)
		assert.Contains(t, readBody(t, resp), e.Label, e.ID)
	}
}

func TestPicks_JSONActionFetchesWithFilters(t *testing.T) {
	app, mt := newTestApp(t)
	var query string
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/players",
		func(req *http.Request) (*http.Response, error) {
			query = req.URL.RawQuery
			return httpmock.NewStringResponse(http.StatusOK, `[
				{"player_id": 1, "web_name": "Haaland", "team_name": "Man City", "position": "FWD", "price": 14.5, "predicted_pts": 7.2},
				{"player_id": 2, "web_name": "Watkins", "team_name": "Aston Villa", "position": "FWD", "price": 9.0, "predicted_pts": 6.9},
				{"player_id": 3, "web_name": "Isak", "team_name": "Newcastle", "position": "FWD", "price": 8.8, "predicted_pts": 6.1}
			]`), nil
		})
	b := &browser{t: t, app: app}

	resp := b.postJSON("/pages/picks", `{"position": "FWD", "max_price": 10, "sort": "price"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, query, "position=FWD")

	v := decodeView[pages.TopPicksView](t, resp)
	assert.Equal(t, pages.StatusSuccess, v.Status)
	assert.Equal(t, pages.SortPrice, v.Sort)
	require.Len(t, v.Rows, 2, "re-applied price ceiling drops Haaland")
	assert.Equal(t, "Watkins", v.Rows[0].Player.WebName)
	assert.Equal(t, "Isak", v.Rows[1].Player.WebName)

	// sorting alone does not refetch
	resp = b.postJSON("/pages/picks", `{"sort": "predicted_pts"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestPicks_InvalidFiltersAreRejected(t *testing.T) {
	app, mt := newTestApp(t)
	b := &browser{t: t, app: app}

	resp := b.postJSON("/pages/picks", `{"max_price": 10.3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = b.postJSON("/pages/picks", `{"position": "GOALIE"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, 0, mt.GetTotalCallCount())
}

func TestPicks_FormSortChangeDoesNotRefetch(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/players",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"player_id": 2, "web_name": "Watkins", "team_name": "Aston Villa", "position": "FWD", "price": 9.0, "predicted_pts": 6.9},
			{"player_id": 3, "web_name": "Isak", "team_name": "Newcastle", "position": "FWD", "price": 8.8, "predicted_pts": 6.1}
		]`))
	b := &browser{t: t, app: app}

	form := "position=FWD&max_price=10&only_available=true&only_available=false&sort="
	resp := b.postForm("/pages/picks", form+"predicted_pts")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = b.postForm("/pages/picks", form+"price")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.Equal(t, 1, mt.GetTotalCallCount())
	v := decodeView[pages.TopPicksView](t, b.get("/api/v1/pages/picks"))
	assert.Equal(t, pages.SortPrice, v.Sort)
	assert.Equal(t, "Watkins", v.Rows[0].Player.WebName)

	resp = b.postForm("/pages/picks", "position=FWD&max_price=9&only_available=false&sort=price")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 2, mt.GetTotalCallCount())
}

func TestPicks_RejectedPostChangesNothing(t *testing.T) {
	app, mt := newTestApp(t)
	b := &browser{t: t, app: app}

	resp := b.postJSON("/pages/picks", `{"sort": "price", "max_price": 10.3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, mt.GetTotalCallCount())

	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	resp = b.postForm("/pages/picks", "sort=price&limit=zero")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML)
	body := readBody(t, resp)
	assert.Contains(t, body, `class="error notice"`)
	assert.Contains(t, body, "Invalid filters")

	v := decodeView[pages.TopPicksView](t, b.get("/api/v1/pages/picks"))
	assert.Equal(t, pages.SortPredicted, v.Sort)
}

func TestOptimal_FormPostRedirects(t *testing.T) {
	app, mt := newTestApp(t)
	var budget map[string]float64
	mt.RegisterResponder(http.MethodPost, testBaseURL+"/squad/optimize",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&budget); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusOK, `{
				"total_cost": 97.0, "predicted_points": 61.2, "budget_remaining": 0.5,
				"starters": [{"web_name": "Salah", "team_name": "Liverpool", "position": "MID", "price": 13.2, "predicted_pts": 8.1, "is_starter": true}],
				"bench": []
			}`), nil
		})
	b := &browser{t: t, app: app}

	resp := b.postForm("/pages/optimal", "budget=97.5")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pages/optimal", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, 97.5, budget["budget"])

	v := decodeView[pages.OptimalSquadView](t, b.get("/api/v1/pages/optimal"))
	assert.True(t, v.HasResult)
	assert.Equal(t, 97.5, v.Budget)
	assert.Equal(t, "Salah", v.Captain)
	assert.NotEmpty(t, v.Warnings)

	resp = b.postForm("/pages/optimal", "budget=79")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML)
	assert.Contains(t, readBody(t, resp), "Invalid budget")
	assert.Equal(t, 1, mt.GetCallCountInfo()["POST "+testBaseURL+"/squad/optimize"])
}

func TestTransfers_ActionsNeedASquad(t *testing.T) {
	app, mt := newTestApp(t)
	b := &browser{t: t, app: app}

	resp := b.postJSON("/pages/transfers/optimize", ``)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = b.postJSON("/pages/transfers/lock/6", ``)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = b.postJSON("/pages/transfers/squad", `{"team_id": "12a"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, 0, mt.GetTotalCallCount())
}

func TestTransfers_LoadLockOptimize(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/42",
		httpmock.NewStringResponder(http.StatusOK, squadJSON))

	var sent models.TransferRequest
	mt.RegisterResponder(http.MethodPost, testBaseURL+"/transfers/optimize",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&sent); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusOK, `{
				"transfers_made": 0, "hits_taken": 0, "points_hit": 0, "net_pts_gain": 0,
				"transfers_in": [], "transfers_out": [], "new_squad": []
			}`), nil
		})
	b := &browser{t: t, app: app}

	resp := b.postJSON("/pages/transfers/squad", `{"team_id": 42}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView[pages.TransferPlannerView](t, resp)
	require.True(t, v.HasSquad)
	assert.Equal(t, 2, v.Settings.FreeTransfers)

	resp = b.postJSON("/pages/transfers/lock/6", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.postJSON("/pages/transfers/lock/999", ``)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = b.postJSON("/pages/transfers/settings", `{"hit_cost": 8}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.postJSON("/pages/transfers/optimize", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView[pages.TransferPlannerView](t, resp)
	require.NotNil(t, v.Plan)
	assert.True(t, v.Plan.NoChange)

	assert.Equal(t, 42, sent.TeamID)
	assert.Equal(t, 2, sent.FreeTransfers)
	assert.Equal(t, 8, sent.HitCost)
	assert.Equal(t, []int{6}, sent.LockedPlayerIDs)
	assert.Equal(t, []string{"Salah"}, sent.LockedPlayers)
}

func TestSessions_AreIsolated(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/42",
		httpmock.NewStringResponder(http.StatusOK, squadJSON))

	alice := &browser{t: t, app: app}
	bob := &browser{t: t, app: app}

	resp := alice.postJSON("/pages/transfers/squad", `{"team_id": "42"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, alice.cookie)

	v := decodeView[pages.TransferPlannerView](t, bob.get("/api/v1/pages/transfers"))
	assert.False(t, v.HasSquad)

	v = decodeView[pages.TransferPlannerView](t, alice.get("/api/v1/pages/transfers"))
	assert.True(t, v.HasSquad)
}

func TestSessions_ExpiryIsRefreshed(t *testing.T) {
	app, mt := newTestApp(t)
	mt.RegisterNoResponder(httpmock.NewErrorResponder(connRefused))
	b := &browser{t: t, app: app}

	b.get("/api/v1/shell")
	first := b.cookie
	require.NotEmpty(t, first)

	resp := b.get("/api/v1/shell")
	var refreshed *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			refreshed = c
		}
	}
	require.NotNil(t, refreshed, "every response renews the session cookie")
	assert.Equal(t, first, sessionCookie+"="+refreshed.Value)
	assert.True(t, refreshed.Expires.After(time.Now().Add(59*time.Minute)))
}

func TestShell_SelectClubToggles(t *testing.T) {
	app, _ := newTestApp(t)
	b := &browser{t: t, app: app}

	var state layout.ShellState
	resp := b.postJSON("/api/v1/shell", `{"club": "liv", "page": "picks"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "LIV", state.Club)
	assert.Equal(t, layout.PagePicks, state.Active)

	resp = b.postJSON("/api/v1/shell", `{"club": "LIV"}`)
	var cleared layout.ShellState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cleared))
	assert.Empty(t, cleared.Club)
	assert.Equal(t, layout.PagePicks, cleared.Active)

	resp = b.postForm("/api/v1/shell", "club=ARS")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pages/picks", resp.Header.Get(fiber.HeaderLocation))

	resp = b.postJSON("/api/v1/shell", `{"page": "india"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReadFields(t *testing.T) {
	app := fiber.New()
	var got fields
	app.Post("/", func(c *fiber.Ctx) error {
		var err error
		got, err = readFields(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("only_available=true&only_available=false&team_id=%2042%20"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	v, ok, err := got.flag("only_available")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v, "first value wins")
	id, _ := got.text("team_id")
	assert.Equal(t, "42", id)

	_, _, err = got.integer("team_id")
	assert.NoError(t, err)
	_, ok, err = got.float("missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"team_id": 12946616, "budget": 97.5}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	id, _ = got.text("team_id")
	assert.Equal(t, "12946616", id)
	budget, _, err := got.float("budget")
	require.NoError(t, err)
	assert.Equal(t, 97.5, budget)
}

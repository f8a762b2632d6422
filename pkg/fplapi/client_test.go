package fplapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpl-go-dashboard/internal/models"
)

const testBaseURL = "http://fpl.test/api"

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	c := NewClient(testBaseURL, 0)
	c.HTTP.Transport = mt
	return c, mt
}

type recordingObserver struct {
	endpoints []string
	outcomes  []string
}

func (r *recordingObserver) ObserveRequest(endpoint, outcome string, _ time.Duration) {
	r.endpoints = append(r.endpoints, endpoint)
	r.outcomes = append(r.outcomes, outcome)
}

func TestPlayerFilters_Values(t *testing.T) {
	tests := []struct {
		name    string
		filters PlayerFilters
		want    map[string]string
	}{
		{"empty", PlayerFilters{}, map[string]string{}},
		{"position only", PlayerFilters{Position: models.FWD}, map[string]string{"position": "FWD"}},
		{"price is shortest form", PlayerFilters{MaxPrice: Float(10)}, map[string]string{"max_price": "10"}},
		{"half price", PlayerFilters{MaxPrice: Float(9.5)}, map[string]string{"max_price": "9.5"}},
		{"false is kept", PlayerFilters{OnlyAvailable: Bool(false)}, map[string]string{"only_available": "false"}},
		{
			"all set",
			PlayerFilters{Position: models.MID, MaxPrice: Float(7.5), OnlyAvailable: Bool(true), Limit: Int(50)},
			map[string]string{"position": "MID", "max_price": "7.5", "only_available": "true", "limit": "50"},
		},
	}

	recognized := map[string]bool{"position": true, "max_price": true, "only_available": true, "limit": true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filters.Values()
			assert.Len(t, got, len(tt.want))
			for key := range got {
				assert.True(t, recognized[key], "unexpected key %q", key)
			}
			for key, value := range tt.want {
				assert.Equal(t, value, got.Get(key))
			}
		})
	}
}

func TestListPlayers_SendsOnlySetFilters(t *testing.T) {
	c, mt := newTestClient(t)

	var gotQuery map[string][]string
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/players",
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.Query()
			return httpmock.NewJsonResponse(http.StatusOK, []models.Player{
				{ID: 1, WebName: "Haaland", TeamName: "Man City", Position: models.FWD, Price: 14.5, PredictedPts: 7.8},
			})
		})

	players, err := c.ListPlayers(context.Background(), PlayerFilters{Position: models.FWD, MaxPrice: Float(10)})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Haaland", players[0].WebName)

	assert.Equal(t, map[string][]string{"position": {"FWD"}, "max_price": {"10"}}, gotQuery)
}

func TestClient_APIErrorUsesDetail(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/12946616",
		httpmock.NewStringResponder(http.StatusNotFound, `{"detail": "Team not found"}`))

	squad, err := c.FetchSquad(context.Background(), "12946616")
	require.Error(t, err)
	assert.Nil(t, squad)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Team not found", Message(err))
}

func TestClient_APIErrorFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"html body", http.StatusBadGateway, "<html>upstream down</html>", "Bad Gateway"},
		{"empty body", http.StatusInternalServerError, "", "Internal Server Error"},
		{"message field", http.StatusBadRequest, `{"message": "budget too low"}`, "budget too low"},
		{"validation list detail", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body"], "msg": "bad"}]}`, "Unprocessable Entity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mt := newTestClient(t)
			mt.RegisterResponder(http.MethodGet, testBaseURL+"/model/insights",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := c.ModelInsights(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestClient_NetworkErrorHasHint(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/model/insights",
		httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}))

	_, err := c.ModelInsights(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)

	msg := Message(err)
	assert.Contains(t, msg, testBaseURL)
	assert.Contains(t, msg, "Start the API server")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestOptimizeSquad_PostsBudget(t *testing.T) {
	c, mt := newTestClient(t)

	const response = `{
		"total_cost": 97.0,
		"predicted_points": 61.42,
		"budget_remaining": 0.5,
		"starters": [{"web_name": "Salah", "team_name": "Liverpool", "position": "MID", "price": 13.2, "predicted_pts": 8.1, "is_starter": true}],
		"bench": [{"web_name": "Flaherty", "team_name": "Crystal Palace", "position": "GK", "price": 4.0, "predicted_pts": 1.2, "is_starter": false}],
		"captain": "Salah",
		"vice_captain": "Palmer"
	}`

	var gotBody map[string]any
	mt.RegisterResponder(http.MethodPost, testBaseURL+"/squad/optimize",
		func(req *http.Request) (*http.Response, error) {
			raw, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(raw, &gotBody); err != nil {
				return nil, err
			}
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, response), nil
		})

	result, err := c.OptimizeSquad(context.Background(), 97.5)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"budget": 97.5}, gotBody)

	var want models.SquadResult
	require.NoError(t, json.Unmarshal([]byte(response), &want))
	assert.Equal(t, &want, result)
	assert.True(t, bool(result.Starters[0].IsStarter))
}

func TestOptimizeTransfers_SendsLocks(t *testing.T) {
	c, mt := newTestClient(t)

	var gotBody map[string]any
	mt.RegisterResponder(http.MethodPost, testBaseURL+"/transfers/optimize",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"transfers_made": 1, "hits_taken": 0, "points_hit": 0, "net_pts_gain": 2.4,
				"transfers_in": [{"player_id": 9, "web_name": "Isak", "team_name": "Newcastle", "position": "FWD", "price": 8.8, "predicted_pts": 6.1}],
				"transfers_out": [{"player_id": 4, "web_name": "Wissa", "team_name": "Brentford", "position": "FWD", "price": 7.0, "predicted_pts": 3.7}],
				"new_squad": [{"player_id": 9, "web_name": "Isak", "team_name": "Newcastle", "position": "FWD", "price": 8.8, "predicted_pts": 6.1, "in_current": 0},
				              {"player_id": 6, "web_name": "Salah", "team_name": "Liverpool", "position": "MID", "price": 13.2, "predicted_pts": 8.1, "in_current": 1}]
			}`), nil
		})

	result, err := c.OptimizeTransfers(context.Background(), models.TransferRequest{
		TeamID:        12946616,
		FreeTransfers: 1,
		HitCost:       4,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 12946616, gotBody["team_id"])
	assert.Equal(t, []any{}, gotBody["locked_player_ids"])
	assert.Equal(t, []any{}, gotBody["locked_players"])

	require.Len(t, result.NewSquad, 2)
	assert.False(t, bool(result.NewSquad[0].InCurrent))
	assert.True(t, bool(result.NewSquad[1].InCurrent))
}

func TestFixtures_EventParameter(t *testing.T) {
	c, mt := newTestClient(t)

	var queries []string
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/fpl/fixtures",
		func(req *http.Request) (*http.Response, error) {
			queries = append(queries, req.URL.RawQuery)
			return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
		})

	_, err := c.Fixtures(context.Background(), 0)
	require.NoError(t, err)
	_, err = c.Fixtures(context.Background(), 27)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "event=27"}, queries)
}

func TestCurrentGameweek(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/current-gw",
		httpmock.NewStringResponder(http.StatusOK, `{"gameweek": 27}`))

	gw, err := c.CurrentGameweek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 27, gw)

	mt.RegisterResponder(http.MethodGet, testBaseURL+"/current-gw",
		httpmock.NewStringResponder(http.StatusOK, `{}`))
	_, err = c.CurrentGameweek(context.Background())
	assert.Error(t, err)
}

func TestClient_CanceledContextIsNotNetworkError(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/model/insights",
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ModelInsights(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
}

func TestClient_ObserverSeesOutcomes(t *testing.T) {
	c, mt := newTestClient(t)
	obs := &recordingObserver{}
	c.Observer = obs

	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/1",
		httpmock.NewStringResponder(http.StatusOK, `{"gameweek": 3, "itb": 0.5, "free_transfers": 1, "players": []}`))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/2",
		httpmock.NewStringResponder(http.StatusNotFound, `{"detail": "Team not found"}`))
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/model/insights",
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	_, _ = c.FetchSquad(context.Background(), "1")
	_, _ = c.FetchSquad(context.Background(), "2")
	_, _ = c.ModelInsights(context.Background())

	assert.Equal(t, []string{"/transfers/squad/{teamId}", "/transfers/squad/{teamId}", "/model/insights"}, obs.endpoints)
	assert.Equal(t, []string{OutcomeOK, OutcomeAPIError, OutcomeDecode}, obs.outcomes)
}

func TestListPlayers_DropsInvalidRecords(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/players",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"player_id": 1, "web_name": "Ghost", "team_name": "Nowhere", "position": "XX", "price": 5.0, "predicted_pts": 2.0},
			{"player_id": 2, "web_name": "Bargain", "team_name": "Nowhere", "position": "DEF", "price": -3, "predicted_pts": 2.0},
			{"player_id": 3, "web_name": "Gloom", "team_name": "Nowhere", "position": "MID", "price": 5.0, "predicted_pts": -1},
			{"player_id": 4, "web_name": "Saka", "team_name": "Arsenal", "position": "MID", "price": 10.1, "predicted_pts": 6.2}
		]`))

	players, err := c.ListPlayers(context.Background(), PlayerFilters{})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Saka", players[0].WebName)
}

func TestFetchSquad_RejectsInvalidPlayer(t *testing.T) {
	c, mt := newTestClient(t)
	obs := &recordingObserver{}
	c.Observer = obs
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/transfers/squad/9",
		httpmock.NewStringResponder(http.StatusOK, `{"gameweek": 3, "itb": 0.5, "free_transfers": 1, "players": [
			{"player_id": 1, "web_name": "Ghost", "team_name": "Nowhere", "position": "XX", "price": -3, "predicted_pts": 2.0}
		]}`))

	squad, err := c.FetchSquad(context.Background(), "9")
	require.Error(t, err)
	assert.Nil(t, squad)
	assert.Contains(t, err.Error(), "invalid position")
}

func TestClient_CanceledContextSkipsTransport(t *testing.T) {
	c, mt := newTestClient(t)
	obs := &recordingObserver{}
	c.Observer = obs
	mt.RegisterResponder(http.MethodGet, testBaseURL+"/players",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPlayers(ctx, PlayerFilters{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mt.GetTotalCallCount())
	assert.Equal(t, []string{OutcomeCanceled}, obs.outcomes)
}

package fplapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/models"
)

// DefaultBaseURL points at a backend running on the developer's machine
const DefaultBaseURL = "http://localhost:8000/api"

// Request outcomes reported to a RequestObserver
const (
	OutcomeOK       = "ok"
	OutcomeAPIError = "api_error"
	OutcomeNetwork  = "network_error"
	OutcomeCanceled = "canceled"
	OutcomeDecode   = "decode_error"
)

// RequestObserver is told about every backend call. Endpoint is the route
// template, not the concrete path.
type RequestObserver interface {
	ObserveRequest(endpoint, outcome string, elapsed time.Duration)
}

// Client talks to the prediction / optimizer backend. It keeps no state
// between calls and never retries.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	Observer RequestObserver
}

// NewClient builds a client for baseURL. A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListPlayers fetches player predictions matching the filters
func (c *Client) ListPlayers(ctx context.Context, filters PlayerFilters) ([]models.Player, error) {
	path := "/players"
	if qs := filters.Values().Encode(); qs != "" {
		path += "?" + qs
	}
	var players []models.Player
	if err := c.do(ctx, http.MethodGet, "/players", path, nil, &players); err != nil {
		return nil, err
	}
	return validPlayers(players), nil
}

// validPlayers drops records that fail Player.Validate
func validPlayers(players []models.Player) []models.Player {
	kept := players[:0]
	for _, p := range players {
		if err := p.Validate(); err != nil {
			logging.WithComponent("fplapi").WithError(err).Debug("Dropping invalid player record")
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// ModelInsights fetches the model's accuracy and feature importances
func (c *Client) ModelInsights(ctx context.Context) (*models.ModelInsight, error) {
	var insight models.ModelInsight
	if err := c.do(ctx, http.MethodGet, "/model/insights", "/model/insights", nil, &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}

// OptimizeSquad asks the optimizer for the best 15-man squad within budget.
// The budget range is a UI concern and is not checked here.
func (c *Client) OptimizeSquad(ctx context.Context, budget float64) (*models.SquadResult, error) {
	body := struct {
		Budget float64 `json:"budget"`
	}{budget}
	var result models.SquadResult
	if err := c.do(ctx, http.MethodPost, "/squad/optimize", "/squad/optimize", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchSquad looks up a manager's live squad by FPL team ID
func (c *Client) FetchSquad(ctx context.Context, teamID string) (*models.UserSquad, error) {
	path := "/transfers/squad/" + url.PathEscape(teamID)
	var squad models.UserSquad
	if err := c.do(ctx, http.MethodGet, "/transfers/squad/{teamId}", path, nil, &squad); err != nil {
		return nil, err
	}
	// a squad with a corrupt player cannot be planned against
	for _, p := range squad.Players {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("decode /transfers/squad/{teamId} response: %w", err)
		}
	}
	return &squad, nil
}

// OptimizeTransfers asks the optimizer for a hit-aware transfer plan
func (c *Client) OptimizeTransfers(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	if req.LockedPlayerIDs == nil {
		req.LockedPlayerIDs = []int{}
	}
	if req.LockedPlayers == nil {
		req.LockedPlayers = []string{}
	}
	var result models.TransferResult
	if err := c.do(ctx, http.MethodPost, "/transfers/optimize", "/transfers/optimize", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// News fetches the latest FPL headlines
func (c *Client) News(ctx context.Context) ([]models.NewsItem, error) {
	var items []models.NewsItem
	if err := c.do(ctx, http.MethodGet, "/fpl/news", "/fpl/news", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Fixtures fetches live score cards. A zero gameweek lets the backend pick.
func (c *Client) Fixtures(ctx context.Context, gameweek int) ([]models.Fixture, error) {
	path := "/fpl/fixtures"
	if gameweek > 0 {
		path += "?" + url.Values{"event": {strconv.Itoa(gameweek)}}.Encode()
	}
	var fixtures []models.Fixture
	if err := c.do(ctx, http.MethodGet, "/fpl/fixtures", path, nil, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// LeagueTable fetches the Premier League standings
func (c *Client) LeagueTable(ctx context.Context) ([]models.TableRow, error) {
	var rows []models.TableRow
	if err := c.do(ctx, http.MethodGet, "/pl/table", "/pl/table", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CurrentGameweek fetches the gameweek the backend considers current
func (c *Client) CurrentGameweek(ctx context.Context) (int, error) {
	var resp struct {
		Gameweek int `json:"gameweek"`
	}
	if err := c.do(ctx, http.MethodGet, "/current-gw", "/current-gw", nil, &resp); err != nil {
		return 0, err
	}
	if resp.Gameweek <= 0 {
		return 0, fmt.Errorf("backend returned no current gameweek")
	}
	return resp.Gameweek, nil
}

// Health pings the backend
func (c *Client) Health(ctx context.Context) error {
	var resp map[string]any
	return c.do(ctx, http.MethodGet, "/health", "/health", nil, &resp)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, in, out any) error {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if c.Observer != nil {
			c.Observer.ObserveRequest(endpoint, outcome, time.Since(start))
		}
	}()

	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := ctx.Err(); err != nil {
		outcome = OutcomeCanceled
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			outcome = OutcomeCanceled
			return ctxErr
		}
		outcome = OutcomeNetwork
		return &NetworkError{BaseURL: c.BaseURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = OutcomeNetwork
		return &NetworkError{BaseURL: c.BaseURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = OutcomeAPIError
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(resp.StatusCode, raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		outcome = OutcomeDecode
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// errorDetail pulls the message out of an error body, falling back to the
// HTTP status text.
func errorDetail(status int, raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		var detail string
		if len(body.Detail) > 0 && json.Unmarshal(body.Detail, &detail) == nil && detail != "" {
			return detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(status)
}

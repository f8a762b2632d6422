package models

import (
	"strconv"
	"time"
)

// NewsItem is a headline shown in the right sidebar
type NewsItem struct {
	ID       int    `json:"id"`
	Category string `json:"cat"`
	Hot      bool   `json:"hot"`
	Icon     string `json:"icon,omitempty"`
	Headline string `json:"headline"`
	Time     string `json:"time"`
}

// Fixture is a live score card for one match
type Fixture struct {
	ID         int    `json:"id"`
	Home       string `json:"h"`
	HomeShort  string `json:"hs"`
	HomeColour string `json:"hc,omitempty"`
	HomeGoals  int    `json:"hg"`
	Away       string `json:"a"`
	AwayShort  string `json:"as_"`
	AwayColour string `json:"ac,omitempty"`
	AwayGoals  int    `json:"ag"`
	Minute     string `json:"min"`
	Live       bool   `json:"live"`
	Upcoming   bool   `json:"upcoming"`
}

// Score renders the fixture scoreline, or "v" before kick-off.
func (f Fixture) Score() string {
	if f.Upcoming {
		return "v"
	}
	return strconv.Itoa(f.HomeGoals) + "-" + strconv.Itoa(f.AwayGoals)
}

// TableRow is one club in the league table
type TableRow struct {
	ID       int    `json:"id"`
	Position int    `json:"pos"`
	Name     string `json:"name"`
	Short    string `json:"abbr"`
	Kit      string `json:"kit,omitempty"`
	Played   int    `json:"played,omitempty"`
	GoalDiff int    `json:"gd,omitempty"`
	Points   int    `json:"pts"`
}

// Kit holds a club's primary and secondary shirt colours
type Kit struct {
	Primary   string `json:"p"`
	Secondary string `json:"s"`
}

// League is a competition listed in the left sidebar
type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Active  bool   `json:"active"`
}

// PitchPlayer is a player of the bundled demo squad
type PitchPlayer struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position Position `json:"pos"`
	Price    float64  `json:"price"`
	GWPoints int      `json:"gw_pts"`
	Points   int      `json:"pts"`
	Captain  bool     `json:"captain"`
	Vice     bool     `json:"vice"`
	Injured  bool     `json:"injured"`
	Starter  bool     `json:"starter"`
}

// FeedSource tells where feed data came from
type FeedSource string

const (
	SourceLive     FeedSource = "live"
	SourceSnapshot FeedSource = "snapshot"
	SourceStatic   FeedSource = "static"
)

// Feed is supplementary data tagged with its provenance
type Feed[T any] struct {
	Items     []T        `json:"items"`
	Source    FeedSource `json:"source"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Degraded reports whether the feed is not live data.
func (f Feed[T]) Degraded() bool {
	return f.Source != SourceLive
}

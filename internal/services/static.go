package services

import "fpl-go-dashboard/internal/models"

// Bundled presentation data. Shown when the backend is unreachable and as
// the content of the demo pages.

var staticNews = []models.NewsItem{
	{ID: 1, Category: "FPL", Hot: true, Icon: "🔥", Headline: "Palmer overtakes Haaland as highest-owned premium this GW", Time: "12 min ago"},
	{ID: 2, Category: "INJURY", Icon: "🩹", Headline: "Haaland doubtful after ankle knock in training", Time: "34 min ago"},
	{ID: 3, Category: "FORM", Icon: "📊", Headline: "Isak's xG run rate is now the best in the Premier League", Time: "1 hr ago"},
	{ID: 4, Category: "FPL", Icon: "👑", Headline: "3.1m managers captained Salah, 13 pts returned vs Bournemouth", Time: "2 hr ago"},
	{ID: 5, Category: "TRANSFER", Icon: "🚀", Headline: "Watkins surges to 20 league goals, FPL price rockets", Time: "3 hr ago"},
	{ID: 6, Category: "FPL", Icon: "🎯", Headline: "Differentials to consider for the final 3 Gameweeks", Time: "4 hr ago"},
	{ID: 7, Category: "INJURY", Icon: "🩹", Headline: "Saka faces late fitness test ahead of Manchester City clash", Time: "5 hr ago"},
}

var staticFixtures = []models.Fixture{
	{ID: 1, Home: "Arsenal", HomeShort: "ARS", HomeColour: "#EF0107", HomeGoals: 3, Away: "Spurs", AwayShort: "TOT", AwayColour: "#132257", AwayGoals: 1, Minute: "67'", Live: true},
	{ID: 2, Home: "Liverpool", HomeShort: "LIV", HomeColour: "#C8102E", HomeGoals: 2, Away: "Man City", AwayShort: "MCI", AwayColour: "#6CABDD", AwayGoals: 2, Minute: "45'", Live: true},
	{ID: 3, Home: "Chelsea", HomeShort: "CHE", HomeColour: "#034694", HomeGoals: 1, Away: "Newcastle", AwayShort: "NEW", AwayColour: "#101010", Minute: "FT"},
	{ID: 4, Home: "Man Utd", HomeShort: "MUN", HomeColour: "#DA291C", Away: "Everton", AwayShort: "EVE", AwayColour: "#003399", Minute: "19:00", Upcoming: true},
	{ID: 5, Home: "Wolves", HomeShort: "WOL", HomeColour: "#FDB913", Away: "Brentford", AwayShort: "BRE", AwayColour: "#E30613", Minute: "21:00", Upcoming: true},
}

var staticTable = []models.TableRow{
	{ID: 1, Position: 1, Name: "Arsenal", Short: "ARS", Kit: "ARS", Points: 82},
	{ID: 2, Position: 2, Name: "Liverpool", Short: "LIV", Kit: "LIV", Points: 79},
	{ID: 3, Position: 3, Name: "Man City", Short: "MCI", Kit: "MCI", Points: 74},
	{ID: 4, Position: 4, Name: "Chelsea", Short: "CHE", Kit: "CHE", Points: 67},
	{ID: 5, Position: 5, Name: "Aston Villa", Short: "AVL", Kit: "AVL", Points: 65},
	{ID: 6, Position: 6, Name: "Tottenham", Short: "TOT", Kit: "TOT", Points: 60},
	{ID: 7, Position: 7, Name: "Newcastle", Short: "NEW", Kit: "NEW", Points: 57},
	{ID: 8, Position: 8, Name: "Brighton", Short: "BHA", Kit: "BHA", Points: 51},
	{ID: 9, Position: 9, Name: "Brentford", Short: "BRE", Kit: "BRE", Points: 48},
	{ID: 10, Position: 10, Name: "Fulham", Short: "FUL", Kit: "FUL", Points: 46},
	{ID: 11, Position: 11, Name: "Wolves", Short: "WOL", Kit: "WOL", Points: 44},
	{ID: 12, Position: 12, Name: "Man United", Short: "MUN", Kit: "MUN", Points: 42},
	{ID: 13, Position: 13, Name: "West Ham", Short: "WHU", Kit: "WHU", Points: 38},
	{ID: 14, Position: 14, Name: "Everton", Short: "EVE", Kit: "EVE", Points: 37},
	{ID: 15, Position: 15, Name: "Crystal Palace", Short: "CRY", Kit: "CRY", Points: 36},
	{ID: 16, Position: 16, Name: "Nottm Forest", Short: "NFO", Kit: "NFO", Points: 35},
	{ID: 17, Position: 17, Name: "Bournemouth", Short: "BOU", Kit: "BOU", Points: 33},
	{ID: 18, Position: 18, Name: "Leicester", Short: "LEI", Kit: "LEI", Points: 28},
	{ID: 19, Position: 19, Name: "Ipswich", Short: "IPS", Kit: "IPS", Points: 22},
	{ID: 20, Position: 20, Name: "Southampton", Short: "SOU", Kit: "SOU", Points: 13},
}

var kits = map[string]models.Kit{
	"ARS": {Primary: "#EF0107", Secondary: "#063672"}, "AVL": {Primary: "#670E36", Secondary: "#95BFE5"},
	"BHA": {Primary: "#0057B8", Secondary: "#FFCD00"}, "BOU": {Primary: "#DA291C", Secondary: "#000000"},
	"BRE": {Primary: "#E30613", Secondary: "#FFFFFF"}, "CHE": {Primary: "#034694", Secondary: "#034694"},
	"CRY": {Primary: "#1B458F", Secondary: "#C4122E"}, "EVE": {Primary: "#003399", Secondary: "#FFFFFF"},
	"FUL": {Primary: "#FFFFFF", Secondary: "#CC0000"}, "IPS": {Primary: "#0044A9", Secondary: "#FFFFFF"},
	"LEI": {Primary: "#003090", Secondary: "#FDBE11"}, "LIV": {Primary: "#C8102E", Secondary: "#00B2A9"},
	"MCI": {Primary: "#6CABDD", Secondary: "#1C2C5B"}, "MUN": {Primary: "#DA291C", Secondary: "#FBE122"},
	"NEW": {Primary: "#101010", Secondary: "#FFFFFF"}, "NFO": {Primary: "#DD0000", Secondary: "#FFFFFF"},
	"SOU": {Primary: "#D71920", Secondary: "#130C0E"}, "TOT": {Primary: "#EFEFEF", Secondary: "#132257"},
	"WHU": {Primary: "#7A263A", Secondary: "#1BB1E7"}, "WOL": {Primary: "#FDB913", Secondary: "#231F20"},
}

var fallbackKit = models.Kit{Primary: "#555555", Secondary: "#333333"}

// Only the Premier League has data; the rest are listed as coming soon.
var leagues = []models.League{
	{ID: "pl", Name: "Premier League", Country: "England", Active: true},
	{ID: "ucl", Name: "Champions League", Country: "Europe"},
	{ID: "laliga", Name: "La Liga", Country: "Spain"},
	{ID: "bl", Name: "Bundesliga", Country: "Germany"},
	{ID: "sa", Name: "Serie A", Country: "Italy"},
	{ID: "el", Name: "Europa League", Country: "Europe"},
}

var demoSquad = []models.PitchPlayer{
	{ID: 1, Name: "Flekken", Team: "BRE", Position: models.GK, Price: 4.5, GWPoints: 6, Points: 42, Starter: true},
	{ID: 2, Name: "T-Arnold", Team: "LIV", Position: models.DEF, Price: 7.2, GWPoints: 9, Points: 118, Starter: true},
	{ID: 3, Name: "Saliba", Team: "ARS", Position: models.DEF, Price: 5.9, GWPoints: 6, Points: 96, Starter: true},
	{ID: 4, Name: "P.Porro", Team: "TOT", Position: models.DEF, Price: 5.8, GWPoints: 8, Points: 89, Starter: true},
	{ID: 5, Name: "Mykolenko", Team: "EVE", Position: models.DEF, Price: 4.5, GWPoints: 2, Points: 54, Injured: true, Starter: true},
	{ID: 6, Name: "Salah", Team: "LIV", Position: models.MID, Price: 13.2, GWPoints: 13, Points: 242, Captain: true, Starter: true},
	{ID: 7, Name: "Palmer", Team: "CHE", Position: models.MID, Price: 11.0, GWPoints: 8, Points: 244, Vice: true, Starter: true},
	{ID: 8, Name: "Mbeumo", Team: "BRE", Position: models.MID, Price: 7.8, GWPoints: 5, Points: 152, Starter: true},
	{ID: 9, Name: "Haaland", Team: "MCI", Position: models.FWD, Price: 14.5, GWPoints: 12, Points: 231, Starter: true},
	{ID: 10, Name: "Watkins", Team: "AVL", Position: models.FWD, Price: 9.0, GWPoints: 6, Points: 195, Starter: true},
	{ID: 11, Name: "Isak", Team: "NEW", Position: models.FWD, Price: 8.8, GWPoints: 15, Points: 182, Starter: true},
	{ID: 12, Name: "Flaherty", Team: "CRY", Position: models.GK, Price: 4.0, GWPoints: 2, Points: 21},
	{ID: 13, Name: "Myko B", Team: "EVE", Position: models.DEF, Price: 4.3, Points: 32},
	{ID: 14, Name: "Andreas", Team: "FUL", Position: models.MID, Price: 5.5, GWPoints: 6, Points: 88},
	{ID: 15, Name: "Wissa", Team: "BRE", Position: models.FWD, Price: 6.2, GWPoints: 3, Points: 94},
}

// StaticNews returns a copy of the bundled headlines
func StaticNews() []models.NewsItem { return append([]models.NewsItem(nil), staticNews...) }

// StaticFixtures returns a copy of the bundled score cards
func StaticFixtures() []models.Fixture { return append([]models.Fixture(nil), staticFixtures...) }

// StaticTable returns a copy of the bundled league table
func StaticTable() []models.TableRow { return append([]models.TableRow(nil), staticTable...) }

// Leagues returns the competitions shown in the left sidebar
func Leagues() []models.League { return append([]models.League(nil), leagues...) }

// DemoSquad returns the bundled demo squad, starters first
func DemoSquad() []models.PitchPlayer { return append([]models.PitchPlayer(nil), demoSquad...) }

// KitFor returns the kit colours of a club by its short name
func KitFor(short string) models.Kit {
	if k, ok := kits[short]; ok {
		return k
	}
	return fallbackKit
}

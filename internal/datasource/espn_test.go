package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401547601",
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "14", "team": {"abbreviation": "JAC"}},
          {"homeAway": "away", "score": "17", "team": {"abbreviation": "BUF"}}
        ],
        "status": {"period": 3, "displayClock": "7:24", "type": {"state": "in"}}
      }]
    },
    {
      "id": "401547602",
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "0", "team": {"abbreviation": "CAR"}},
          {"homeAway": "away", "score": "0", "team": {"abbreviation": "LA"}}
        ],
        "status": {"period": 0, "displayClock": "0:00", "type": {"state": "pre"}}
      }]
    },
    {
      "id": "401547603",
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "31", "team": {"abbreviation": "PHI"}},
          {"homeAway": "away", "score": "24", "team": {"abbreviation": "SF"}}
        ],
        "status": {"period": 4, "displayClock": "0:00", "type": {"state": "post"}}
      }]
    }
  ]
}`

const summaryFixture = `{
  "boxscore": {
    "players": [
      {
        "statistics": [
          {
            "name": "passing",
            "labels": ["C/ATT", "YDS", "AVG", "TD", "INT", "SACKS", "QBR", "RTG"],
            "athletes": [
              {"athlete": {"displayName": "Josh Allen"}, "stats": ["18/27", "224", "8.3", "2", "1", "2-12", "68.4", "101.1"]}
            ]
          },
          {
            "name": "rushing",
            "labels": ["CAR", "YDS", "AVG", "TD", "LONG"],
            "athletes": [
              {"athlete": {"displayName": "James Cook"}, "stats": ["14", "87", "6.2", "1", "23"]},
              {"athlete": {"displayName": "Josh Allen"}, "stats": ["6", "31", "5.2", "0", "12"]}
            ]
          },
          {
            "name": "receiving",
            "labels": ["REC", "YDS", "AVG", "TD", "LONG", "TGTS"],
            "athletes": [
              {"athlete": {"displayName": "Khalil Shakir"}, "stats": ["5", "54", "10.8", "1", "17", "7"]}
            ]
          },
          {
            "name": "fumbles",
            "labels": ["FUM", "LOST", "REC"],
            "athletes": [
              {"athlete": {"displayName": "James Cook"}, "stats": ["1", "1", "0"]}
            ]
          }
        ]
      }
    ]
  }
}`

// newTestESPNClient builds a client pointed at a test server, with retries and
// rate limiting effectively disabled
func newTestESPNClient(baseURL string, cacheTTL time.Duration) *ESPNClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = 2 * time.Second
	httpCfg.MaxRetries = 0
	httpCfg.RetryWaitMin = time.Millisecond
	httpCfg.RetryWaitMax = 2 * time.Millisecond
	httpCfg.RateLimit = 1000

	return NewESPNClient(NewRateLimitedHTTPClient(httpCfg, nil), baseURL, cacheTTL, nil)
}

// TestESPNFetchScoreboard tests scoreboard parsing, team aliasing and clock math
func TestESPNFetchScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scoreboard" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	client := newTestESPNClient(server.URL, 0)
	games, err := client.FetchScoreboard(context.Background())
	if err != nil {
		t.Fatalf("FetchScoreboard failed: %v", err)
	}

	if len(games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(games))
	}

	live := games[0]
	if live.Matchup() != "BUF @ JAX" {
		t.Errorf("Expected matchup 'BUF @ JAX' from ESPN's JAC code, got %q", live.Matchup())
	}
	if live.AwayScore != 17 || live.HomeScore != 14 {
		t.Errorf("Expected score 17-14, got %d-%d", live.AwayScore, live.HomeScore)
	}
	if live.Quarter() != 3 {
		t.Errorf("Expected quarter 3, got %d", live.Quarter())
	}
	if live.TimeRemainingSeconds != 1344 {
		t.Errorf("Expected 1344 seconds remaining (one quarter plus 7:24), got %d", live.TimeRemainingSeconds)
	}

	pre := games[1]
	if pre.Matchup() != "LAR @ CAR" {
		t.Errorf("Expected matchup 'LAR @ CAR' from ESPN's LA code, got %q", pre.Matchup())
	}
	if pre.Quarter() != 0 {
		t.Errorf("Expected quarter 0 before kickoff, got %d", pre.Quarter())
	}
	if pre.TimeRemainingSeconds != 3600 {
		t.Errorf("Expected full clock before kickoff, got %d", pre.TimeRemainingSeconds)
	}

	final := games[2]
	if final.Quarter() != 5 {
		t.Errorf("Expected final marker quarter 5, got %d", final.Quarter())
	}
	if final.TimeRemainingSeconds != 0 {
		t.Errorf("Expected 0 seconds remaining after final, got %d", final.TimeRemainingSeconds)
	}

	update := live.Update()
	if update.GameID != "BUF @ JAX" || update.Quarter != 3 || update.TimeRemaining != 1344 {
		t.Errorf("Unexpected game update from live state: %+v", update)
	}
}

// TestESPNScoreboardCache tests that repeated fetches inside the TTL reuse the
// cached response
func TestESPNScoreboardCache(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		_, _ = w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	client := newTestESPNClient(server.URL, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.FetchScoreboard(ctx); err != nil {
			t.Fatalf("FetchScoreboard %d failed: %v", i, err)
		}
	}

	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("Expected 1 upstream request for 3 cached fetches, got %d", n)
	}
}

// TestESPNFetchScoreboardErrors tests error classification on failing upstreams
func TestESPNFetchScoreboardErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantCode   string
	}{
		{"Forbidden", http.StatusForbidden, ErrCodeServerError},
		{"Server error", http.StatusInternalServerError, ErrCodeNetworkError}, // consumed by retries
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := newTestESPNClient(server.URL, 0)
			_, err := client.FetchScoreboard(context.Background())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var provErr ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("Expected ProviderError, got %T: %v", err, err)
			}
			if provErr.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, provErr.Code)
			}
		})
	}
}

// TestESPNFetchScoreboardSkipsMalformedEvents tests that a bad event is
// dropped without failing the fetch
func TestESPNFetchScoreboardSkipsMalformedEvents(t *testing.T) {
	fixture := `{
	  "events": [
	    {"id": "broken", "competitions": []},
	    {
	      "id": "ok",
	      "competitions": [{
	        "competitors": [
	          {"homeAway": "home", "score": "3", "team": {"abbreviation": "PIT"}},
	          {"homeAway": "away", "score": "7", "team": {"abbreviation": "HOU"}}
	        ],
	        "status": {"period": 1, "displayClock": "12:00", "type": {"state": "in"}}
	      }]
	    }
	  ]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	client := newTestESPNClient(server.URL, 0)
	games, err := client.FetchScoreboard(context.Background())
	if err != nil {
		t.Fatalf("FetchScoreboard failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("Expected 1 game after skipping the malformed event, got %d", len(games))
	}
	if games[0].Matchup() != "HOU @ PIT" {
		t.Errorf("Expected 'HOU @ PIT', got %q", games[0].Matchup())
	}
}

// TestESPNFetchPlayerStats tests box score parsing across stat groups
func TestESPNFetchPlayerStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summary" || r.URL.Query().Get("event") != "401547601" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(summaryFixture))
	}))
	defer server.Close()

	client := newTestESPNClient(server.URL, 0)
	stats, err := client.FetchPlayerStats(context.Background(), "401547601")
	if err != nil {
		t.Fatalf("FetchPlayerStats failed: %v", err)
	}

	allen, ok := stats["Josh Allen"]
	if !ok {
		t.Fatal("Expected stats for Josh Allen")
	}
	if allen.PassYards != 224 || allen.PassTDs != 2 || allen.Interceptions != 1 {
		t.Errorf("Unexpected passing line: %+v", allen)
	}
	if allen.RushYards != 31 {
		t.Errorf("Expected rushing yards accumulated from the rushing group, got %v", allen.RushYards)
	}

	cook := stats["James Cook"]
	if cook.RushYards != 87 || cook.RushTDs != 1 {
		t.Errorf("Unexpected rushing line: %+v", cook)
	}
	if cook.FumblesLost != 1 {
		t.Errorf("Expected 1 fumble lost from the fumbles group, got %v", cook.FumblesLost)
	}

	shakir := stats["Khalil Shakir"]
	if shakir.Receptions != 5 || shakir.RecYards != 54 || shakir.RecTDs != 1 {
		t.Errorf("Unexpected receiving line: %+v", shakir)
	}
}

// TestESPNFetchPlayerStatsNotFound tests the missing event path
func TestESPNFetchPlayerStatsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestESPNClient(server.URL, 0)
	_, err := client.FetchPlayerStats(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected error for unknown event")
	}

	var provErr ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Code != ErrCodeNotFound {
		t.Errorf("Expected code %s, got %s", ErrCodeNotFound, provErr.Code)
	}
}

// TestRemainingSeconds tests full-game clock computation
func TestRemainingSeconds(t *testing.T) {
	tests := []struct {
		name     string
		period   int
		clock    string
		state    string
		expected int
	}{
		{"Pre-game", 0, "0:00", "pre", 3600},
		{"Final", 4, "0:00", "post", 0},
		{"Third quarter", 3, "7:24", "in", 1344},
		{"Start of first", 1, "15:00", "in", 3600},
		{"End of fourth", 4, "0:04", "in", 4},
		{"Overtime", 5, "8:12", "in", 492},
		{"Unparseable clock", 2, "--", "in", 1800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remainingSeconds(tt.period, tt.clock, tt.state)
			if got != tt.expected {
				t.Errorf("Expected %d seconds, got %d", tt.expected, got)
			}
		})
	}
}

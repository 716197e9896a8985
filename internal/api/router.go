// Package api provides the HTTP surface of the feed service: the
// WebSocket subscription endpoint plus synchronous pull endpoints for
// polling collaborators.
package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"feedsim/internal/gateway"
	"feedsim/internal/market"
	"feedsim/internal/model"
	"feedsim/internal/quotes"
	"feedsim/internal/widgets"
)

// NewRouter builds the main HTTP mux.
func NewRouter(engine *market.Engine, hub *gateway.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// The stateless endpoints draw from their own jitter source; they
	// never touch engine state.
	var rngMu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"feedserver"}`))
	})

	// Same content as a full snapshot message, for polling collaborators.
	mux.HandleFunc("/api/chart", func(w http.ResponseWriter, _ *http.Request) {
		candles := engine.Snapshot()
		if candles == nil {
			candles = []model.Candle{}
		}
		writeJSON(w, model.ChartMessage{
			Type:    model.TypeChartSnapshot,
			Candles: candles,
		})
	})

	mux.HandleFunc("/api/quotes", func(w http.ResponseWriter, _ *http.Request) {
		rngMu.Lock()
		qs := quotes.Generate(rng)
		rngMu.Unlock()
		writeJSON(w, model.QuotesMessage{Type: model.TypeQuotes, Quotes: qs})
	})

	mux.HandleFunc("/api/widgets", func(w http.ResponseWriter, _ *http.Request) {
		rngMu.Lock()
		payload := widgets.Generate(rng)
		rngMu.Unlock()
		writeJSON(w, payload)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

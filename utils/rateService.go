package utils

import (
	"encoding/json"
	"finpay/config"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Advisory INR reference rate, refreshed by the scheduler and surfaced on the
// admin console. Deposits always use the admin-configured rate, never this.

var (
	rateMu         sync.RWMutex
	lastMarketRate float64
	lastRateFetch  time.Time
)

// FetchMarketRate queries the configured endpoint for the current USDT/INR
// reference price.
func FetchMarketRate() (float64, error) {
	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().Get(config.AppConfig.MarketRateURL)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("market rate fetch failed, code: %d", resp.StatusCode())
	}

	var parsed struct {
		Tether struct {
			INR float64 `json:"inr"`
		} `json:"tether"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return 0, err
	}
	if parsed.Tether.INR <= 0 {
		return 0, fmt.Errorf("market rate response missing price")
	}

	rateMu.Lock()
	lastMarketRate = parsed.Tether.INR
	lastRateFetch = time.Now()
	rateMu.Unlock()

	return parsed.Tether.INR, nil
}

// CachedMarketRate returns the last fetched reference rate and its timestamp.
// Returns zero values when no fetch has succeeded yet.
func CachedMarketRate() (float64, time.Time) {
	rateMu.RLock()
	defer rateMu.RUnlock()
	return lastMarketRate, lastRateFetch
}

// RefreshMarketRate fetches and logs; used by the scheduler
func RefreshMarketRate() {
	rate, err := FetchMarketRate()
	if err != nil {
		log.Printf("[RATE] Failed to refresh market rate: %v", err)
		return
	}
	log.Printf("[RATE] Market reference rate updated: %.2f INR", rate)
}

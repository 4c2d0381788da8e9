// watcher polls the tracking server for a dependent's current zone and
// adapts its own cadence: slow while confidently inside the safezone, fast
// everywhere else. Missing a poll only delays the display; the server does
// not depend on this loop.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frankss230/tew-map-AFE/module/core/domain"
	"github.com/frankss230/tew-map-AFE/module/core/service"
)

type zoneResponse struct {
	Message string `json:"message"`
	Data    struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		ZoneState int     `json:"zone_state"`
		ZoneName  string  `json:"zone_name"`
		Distance  float64 `json:"distance"`
		AsOf      int64   `json:"as_of"`
	} `json:"data"`
}

type safezoneResponse struct {
	Message string          `json:"message"`
	Data    domain.Safezone `json:"data"`
}

func main() {
	var (
		server     = flag.String("server", "http://localhost:8080", "tracking server base URL")
		userID     = flag.Int64("user", 0, "caregiver user id")
		takecareID = flag.Int64("takecare", 0, "tracked person id")
	)
	flag.Parse()

	if *userID == 0 || *takecareID == 0 {
		fmt.Fprintln(os.Stderr, "usage: watcher -user <id> -takecare <id> [-server <url>]")
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	safezone, err := fetchSafezone(client, *server, *userID, *takecareID)
	if err != nil {
		log.Fatalf("fetch safezone: %v", err)
	}
	log.Printf("safezone: center (%.6f, %.6f) r1=%.0fm r2=%.0fm",
		safezone.Center.Latitude, safezone.Center.Longitude,
		safezone.RadiusTier1, safezone.RadiusTier2)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	interval := service.FastPollInterval
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-sig:
			log.Println("shutting down")
			return
		case <-timer.C:
		}

		zone, err := fetchZone(client, *server, *userID, *takecareID)
		if err != nil {
			log.Printf("poll failed: %v", err)
			timer.Reset(service.FastPollInterval)
			continue
		}

		state := domain.ZoneState(zone.Data.ZoneState)
		next := service.NextPollInterval(state, zone.Data.Distance, safezone.RadiusTier1)
		if next != interval {
			log.Printf("cadence change: %s -> %s (state %s)", interval, next, state)
			interval = next
		}

		log.Printf("[%s] (%.6f, %.6f) %.0fm as of %s",
			zone.Data.ZoneName, zone.Data.Latitude, zone.Data.Longitude,
			zone.Data.Distance, time.Unix(zone.Data.AsOf, 0).Format(time.RFC3339))

		timer.Reset(interval)
	}
}

func fetchZone(client *http.Client, server string, userID, takecareID int64) (*zoneResponse, error) {
	url := fmt.Sprintf("%s/api/tracking/%d/%d/zone", server, userID, takecareID)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var zone zoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func fetchSafezone(client *http.Client, server string, userID, takecareID int64) (*domain.Safezone, error) {
	url := fmt.Sprintf("%s/api/tracking/%d/%d/safezone", server, userID, takecareID)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var sz safezoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&sz); err != nil {
		return nil, err
	}
	return &sz.Data, nil
}

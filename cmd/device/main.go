// device simulates a wearable tracker: it walks a dependent away from the
// safezone center and back, publishing position reports over MQTT at a fixed
// interval.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type reportMessage struct {
	UserID     int64   `json:"user_id"`
	TakecareID int64   `json:"takecare_id"`
	Distance   float64 `json:"distance"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Battery    float64 `json:"battery"`
}

// Safezone center used by the local compose setup.
const (
	centerLat = 13.7563
	centerLng = 100.5018
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintln(os.Stderr, "error: interval must be a positive integer")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("safezone-mock-device")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("connected to %s, reporting every %ds...", broker, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	battery := 100.0
	step := 0
	for range ticker.C {
		// Oscillate between the center and ~30m out so the server sees
		// every band and both directions of each crossing.
		offset := 30.0 * math.Abs(math.Sin(float64(step)*math.Pi/20))
		lat := centerLat + offset/111320 // ~meters per degree latitude
		step++

		battery -= 0.1
		if battery < 0 {
			battery = 100
		}

		msg := reportMessage{
			UserID:     1,
			TakecareID: 1,
			Distance:   offset,
			Latitude:   lat,
			Longitude:  centerLng,
			Battery:    math.Round(battery*10) / 10,
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("care/device/%d/location", msg.TakecareID)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}

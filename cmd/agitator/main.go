// Package main - agitator
// Load generator for the demo server: many WebSocket clients sending random
// action identifiers at a fixed interval.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/network"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	UnknownRatio   float64
	OutputPath     string
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent    int64
	UpdatesReceived int64
	Rejected        int64
	RateLimited     int64
	Errors          int64
	Latencies       []time.Duration
	mu              sync.Mutex
}

// Actions that would end the run early or wipe progress are rare.
var heavyActions = map[engine.ActionID]bool{
	engine.ActionSimulateLife:   true,
	engine.ActionResetCharacter: true,
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	unknown := flag.Float64("unknown", 0.05, "Fraction of actions sent with an unrecognised id")
	output := flag.String("out", "stress_test_results.json", "Where to write the JSON summary")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		UnknownRatio:   *unknown,
		OutputPath:     *output,
	}

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - Life Simulator load test")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	stats := runStressTest(ctx, config)
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("Progress: Sent=%d Updates=%d Limited=%d Errors=%d\n",
					atomic.LoadInt64(&stats.MessagesSent),
					atomic.LoadInt64(&stats.UpdatesReceived),
					atomic.LoadInt64(&stats.RateLimited),
					atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("Client %d: Connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			classify(message, stats)
		}
	}()

	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			action := generateRandomAction(config.UnknownRatio)
			start := time.Now()

			if err := conn.WriteJSON(action); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}

			latency := time.Since(start)
			atomic.AddInt64(&stats.MessagesSent, 1)

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

// classify counts one server frame: a broadcast update or an error frame.
func classify(message []byte, stats *Stats) {
	var frame network.ErrorFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	switch frame.Error {
	case "":
		atomic.AddInt64(&stats.UpdatesReceived, 1)
	case "rate limited":
		atomic.AddInt64(&stats.RateLimited, 1)
	default:
		atomic.AddInt64(&stats.Rejected, 1)
	}
}

func generateRandomAction(unknownRatio float64) network.PlayerAction {
	if rand.Float64() < unknownRatio {
		return network.PlayerAction{Action: fmt.Sprintf("agitator-%d", rand.IntN(1000))}
	}
	known := engine.KnownActions()
	for {
		id := known[rand.IntN(len(known))]
		// Keep heavy actions to roughly one in a hundred draws.
		if heavyActions[id] && rand.IntN(100) != 0 {
			continue
		}
		return network.PlayerAction{Action: string(id)}
	}
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.UpdatesReceived)
	limited := atomic.LoadInt64(&stats.RateLimited)
	rejected := atomic.LoadInt64(&stats.Rejected)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Messages Sent:     %d\n", sent)
	fmt.Printf("Updates Received:  %d\n", recv)
	fmt.Printf("Rate Limited:      %d\n", limited)
	fmt.Printf("Rejected:          %d\n", rejected)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f msg/sec\n", throughput)

	if len(stats.Latencies) > 0 {
		var total time.Duration
		var min, max time.Duration = stats.Latencies[0], stats.Latencies[0]

		for _, l := range stats.Latencies {
			total += l
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
		}

		avg := total / time.Duration(len(stats.Latencies))

		fmt.Printf("\nWrite latency:\n")
		fmt.Printf("  Min: %v\n", min)
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}

	fmt.Println("\n-----------------------------------------")
	switch {
	case errs == 0 && rejected == 0:
		fmt.Println("TEST PASSED: System handled the load")
	case float64(errs+rejected)/float64(sent+1) < 0.05:
		fmt.Println("TEST WARNING: Some errors detected")
	default:
		fmt.Println("TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	results := map[string]interface{}{
		"messages_sent":      sent,
		"updates_received":   recv,
		"rate_limited":       limited,
		"rejected":           rejected,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile(config.OutputPath, jsonData, 0o644); err != nil {
		log.Printf("failed to save results: %v", err)
		return
	}
	fmt.Printf("\nResults saved to %s\n", config.OutputPath)
}

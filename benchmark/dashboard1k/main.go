package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

var maxClients int = 1000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var throttled atomic.Int64
var failed atomic.Int64

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	machineIDs := fetchMachines()
	fmt.Printf("dashboard serves %v machines\n", len(machineIDs))

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range machineIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			setLimiter(machineIDs[i], float64(maxClients), maxClients)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf("raised limiter for %v machines: used time=%v seconds\n", len(machineIDs), usedTime.Seconds())

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxClients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doAction(machineIDs[i%len(machineIDs)])
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v clients: used time=%v seconds, throughput=%v action/second, throttled=%v, failed=%v\n",
		maxClients, usedTime.Seconds(), float64(maxClients*3)/usedTime.Seconds(), throttled.Load(), failed.Load(),
	)
}

func jitter() time.Duration {
	rndMu.Lock()
	defer rndMu.Unlock()
	return time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
}

func fetchMachines() []string {
	resp, err := http.Get(fmt.Sprintf("http://%s/machines", httpHostPort))
	if err != nil {
		log.Fatal("Failed to list machines:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("machines endpoint returned %v, has the pipeline run?", resp.StatusCode)
	}

	var body struct {
		Machines []string `json:"machines"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Fatal("Failed to decode machines:", err)
	}
	if len(body.Machines) == 0 {
		log.Fatal("no machines in feature table")
	}
	return body.Machines
}

func setLimiter(machineID string, rate float64, burst int) {
	payload := map[string]any{"rate": rate, "burst": burst}
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s/machines/%s/limiter", httpHostPort, machineID), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	resp.Body.Close()
}

func check(path string) {
	resp, err := http.Get(fmt.Sprintf("http://%s%s", httpHostPort, path))
	if err != nil {
		failed.Add(1)
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		throttled.Add(1)
	default:
		failed.Add(1)
		fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
	}
}

func doAction(machineID string) {
	paths := []string{
		"/machines/" + machineID + "/summary",
		"/failures/by-mode",
		"/rul/histogram?bins=30",
	}
	rndMu.Lock()
	rnd.Shuffle(len(paths), func(i, j int) {
		paths[i], paths[j] = paths[j], paths[i]
	})
	rndMu.Unlock()
	for _, path := range paths {
		check(path)
		fmt.Printf("\rexecuted %v for machine %v", path, machineID)
		time.Sleep(jitter())
	}
}

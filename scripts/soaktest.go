// Soaktest sends repeated GET requests to the service root and checks that
// every response has one of the two documented shapes. Run it against a live
// database to confirm that connections are returned: a leak shows up as
// failures once the server's connection limit is reached.
//
// Usage:
//
//	go run soaktest.go -url http://localhost:3000/ -requests 100
//	go run soaktest.go -url http://localhost:3000/ -requests 5000 -concurrency 50 -out summary.json
//
// Exit codes:
//
//	0 - every response was a 200 with the time body
//	2 - at least one 500 or transport error
//	3 - at least one response with an unexpected shape
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var successBody = regexp.MustCompile(`^Hello from Node\.js App — DB time: .+\n$`)

const failurePrefix = "Cannot connect to DB: "

type summary struct {
	Target      string         `json:"target"`
	Requests    int            `json:"requests"`
	Concurrency int            `json:"concurrency"`
	Success     int32          `json:"success"`
	DBFailures  int32          `json:"db_failures"`
	Malformed   int32          `json:"malformed"`
	Transport   int32          `json:"transport_errors"`
	StatusCodes map[int]int32  `json:"status_codes"`
	Errors      map[string]int `json:"errors,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
	P50MS       float64        `json:"p50_ms"`
	P99MS       float64        `json:"p99_ms"`
}

func main() {
	var (
		url         = flag.String("url", "http://localhost:3000/", "Target URL")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		concurrency = flag.Int("concurrency", 1, "Number of concurrent workers (1 = sequential)")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	if *concurrency < 1 {
		*concurrency = 1
	}

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	sum := summary{
		Target:      *url,
		Requests:    *requests,
		Concurrency: *concurrency,
		StatusCodes: make(map[int]int32),
		Errors:      make(map[string]int),
	}
	var mu sync.Mutex
	var latencies []time.Duration

	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				reqStart := time.Now()
				resp, err := client.Get(*url)
				dur := time.Since(reqStart)

				if err != nil {
					atomic.AddInt32(&sum.Transport, 1)
					if *verbose {
						fmt.Printf("[%d] idx=%d error=%v\n", workerID, idx, err)
					}
					continue
				}

				raw, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				body := string(raw)

				mu.Lock()
				sum.StatusCodes[resp.StatusCode]++
				latencies = append(latencies, dur)
				mu.Unlock()

				switch {
				case resp.StatusCode == http.StatusOK && successBody.MatchString(body):
					atomic.AddInt32(&sum.Success, 1)
				case resp.StatusCode == http.StatusInternalServerError && strings.HasPrefix(body, failurePrefix):
					atomic.AddInt32(&sum.DBFailures, 1)
					mu.Lock()
					sum.Errors[strings.TrimPrefix(body, failurePrefix)]++
					mu.Unlock()
				default:
					atomic.AddInt32(&sum.Malformed, 1)
				}

				if *verbose {
					fmt.Printf("[%d] idx=%d status=%d dur=%v body=%q\n", workerID, idx, resp.StatusCode, dur, body)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	sum.DurationMS = time.Since(start).Milliseconds()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		pick := func(p float64) float64 {
			return float64(latencies[int(float64(len(latencies)-1)*p)].Microseconds()) / 1000.0
		}
		sum.P50MS = pick(0.50)
		sum.P99MS = pick(0.99)
	}

	fmt.Println("--- Soak Test Summary ---")
	fmt.Printf("Target: %s\n", sum.Target)
	fmt.Printf("Requests: %d  Concurrency: %d  Duration: %dms\n", sum.Requests, sum.Concurrency, sum.DurationMS)
	fmt.Printf("Success: %d  DB failures: %d  Malformed: %d  Transport errors: %d\n",
		sum.Success, sum.DBFailures, sum.Malformed, sum.Transport)
	fmt.Printf("Latency p50=%.3fms p99=%.3fms\n", sum.P50MS, sum.P99MS)

	for msg, n := range sum.Errors {
		fmt.Printf("  %dx %s\n", n, msg)
	}

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(sum)
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if sum.Malformed > 0 {
		os.Exit(3)
	}
	if sum.DBFailures > 0 || sum.Transport > 0 {
		os.Exit(2)
	}
}

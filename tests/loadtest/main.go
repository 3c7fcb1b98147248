package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 20
	testDuration = 10 * time.Second
	maxPage      = 20
)

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count      int64
	errors     int64
	superseded int64
	latencies  []time.Duration
}

// newSessionClient gives every worker its own cookie jar, i.e. its own
// console session.
func newSessionClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: 15 * time.Second,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     30 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func main() {
	fmt.Println("=== Feedback console load test ===")
	fmt.Printf("Workers: %d | Duration: %s | Pages: %d\n\n", numWorkers, testDuration, maxPage)

	fmt.Print("Waiting for console... ")
	healthClient := newSessionClient()
	for i := 0; i < 30; i++ {
		resp, err := healthClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: console not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: page browsing ---")
	runPhase(testDuration, func(c *http.Client, rng *rand.Rand) []result {
		if rng.Float64() < 0.5 {
			return []result{get(c, "GET /", fmt.Sprintf("/?page=%d", rng.Intn(maxPage)))}
		}
		return []result{get(c, "GET /api/page", fmt.Sprintf("/api/page?page=%d", rng.Intn(maxPage)))}
	})

	// two clicks on different pages of the same session; the older one
	// should come back as superseded (409) or both succeed
	fmt.Println("\n--- Phase 2: double clicks in one session ---")
	runPhase(testDuration, func(c *http.Client, rng *rand.Rand) []result {
		var wg sync.WaitGroup
		out := make([]result, 2)
		for i := range out {
			wg.Add(1)
			go func(i int, page int) {
				defer wg.Done()
				out[i] = get(c, "GET / (double)", fmt.Sprintf("/?page=%d", page))
			}(i, rng.Intn(maxPage))
		}
		wg.Wait()
		return out
	})
}

func runPhase(duration time.Duration, workFn func(c *http.Client, rng *rand.Rand) []result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			client := newSessionClient()
			for {
				select {
				case <-stop:
					return
				default:
					for _, r := range workFn(client, rng) {
						totalOps.Add(1)
						results <- r
					}
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.status == http.StatusConflict {
				s.superseded++
			} else if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func get(c *http.Client, endpoint, path string) result {
	start := time.Now()
	resp, err := c.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-18s %8s %6s %6s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "409s", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-18s %8d %6d %6d %10s %10s %10s\n",
			ep, s.count, s.errors, s.superseded,
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 76))
	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/liveprobe/liveprobe/internal/config"
	"github.com/liveprobe/liveprobe/internal/probe"
)

// Probes every URL given on the command line concurrently and prints one
// line per URL. Exits 1 if any endpoint is down.
func main() {
	raw := os.Args[1:]
	if len(raw) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cli <url> [<url> ...]")
		os.Exit(2)
	}

	endpoints := make([]probe.Endpoint, 0, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if !strings.Contains(a, "://") {
			a = "https://" + a
		}
		if _, err := url.ParseRequestURI(a); err != nil {
			fmt.Fprintf(os.Stderr, "invalid URL: %s\n", a)
			os.Exit(2)
		}
		endpoints = append(endpoints, a)
	}

	cfg := config.FromEnv()
	prober := probe.NewProber(probe.NewHTTPChecker(cfg.ProbeTimeout), cfg.ProbeTimeout)

	set := prober.ProbeAll(context.Background(), endpoints)

	for _, r := range set {
		if r.Reachable {
			fmt.Printf("%s is up and running.\n", r.Endpoint)
		} else {
			fmt.Printf("%s seems to be down. (%s)\n", r.Endpoint, r.Reason)
		}
	}
	if set.Down() > 0 {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"strings"
)

// Sanity-checks the environment before starting the API.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (admin routes will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (read routes will 401).")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if addr == "" {
		warn("ADDR is empty; the app default will be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if db == "" {
		warn("DATABASE_URL empty — API will use in-memory stores; state is lost on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if slack == "" {
		warn("SLACK_WEBHOOK empty — down/recovery alerts are disabled.")
	} else {
		ok("SLACK_WEBHOOK present")
	}

	ok("preflight passed")
}

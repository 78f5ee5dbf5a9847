package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// smoke creates a task through a running server and checks that the list
// page shows it.
func main() {
	base := flag.String("url", "http://localhost:3000", "server base URL")
	flag.Parse()

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	title := fmt.Sprintf("Smoke test %d", time.Now().UnixNano())
	form := url.Values{"title": {title}, "description": {"created by cmd/smoke"}}

	res, err := client.PostForm(*base+"/tasks", form)
	if err != nil {
		log.Fatalf("post task: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusFound || res.Header.Get("Location") != "/" {
		log.Fatalf("expected 302 to /, got %d to %q", res.StatusCode, res.Header.Get("Location"))
	}

	res, err = client.Get(*base + "/")
	if err != nil {
		log.Fatalf("get list: %v", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatalf("read list: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		log.Fatalf("expected 200, got %d", res.StatusCode)
	}
	page := string(body)
	if strings.Contains(page, `data-degraded="true"`) {
		log.Fatal("server is running in degraded mode")
	}
	if !strings.Contains(page, title) {
		log.Fatalf("task %q not listed", title)
	}
	log.Println("smoke test passed:", title)
}

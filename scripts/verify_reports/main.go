package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type verifyResult struct {
	Reference string
	Status    int
	Valid     bool
	Duration  time.Duration
	Err       error
}

type envelope struct {
	Data struct {
		Valid           bool   `json:"valid"`
		ReferenceNumber string `json:"referenceNumber"`
		TemplateName    string `json:"templateName"`
	} `json:"data"`
}

// Smoke-checks the public verification endpoint against a batch of
// reference numbers, one per line. Exits non-zero when any reference
// that should verify comes back invalid.
func main() {
	var (
		baseURL string
		input   string
		timeout time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&input, "refs", "", "Path to file with one reference number per line (defaults to stdin)")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	refs, err := loadReferences(input)
	if err != nil {
		log.Fatalf("failed to load references: %v", err)
	}
	if len(refs) == 0 {
		log.Fatal("no reference numbers provided")
	}

	client := &http.Client{Timeout: timeout}
	invalid := 0
	for _, ref := range refs {
		res := verifyReference(client, baseURL, ref)
		printResult(res)
		if res.Err != nil || !res.Valid {
			invalid++
		}
	}

	fmt.Printf("Checked %d references, %d invalid\n", len(refs), invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}

func loadReferences(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() //nolint:errcheck
		r = file
	}

	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	return refs, scanner.Err()
}

func verifyReference(client *http.Client, base, ref string) verifyResult {
	res := verifyResult{Reference: ref}
	url := fmt.Sprintf("%s/public/reports/%s/verify", strings.TrimRight(base, "/"), ref)

	start := time.Now()
	resp, err := client.Get(url)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close() //nolint:errcheck

	res.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read body: %w", err)
		return res
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		res.Err = fmt.Errorf("decode body: %w", err)
		return res
	}
	res.Valid = env.Data.Valid
	return res
}

func printResult(res verifyResult) {
	status := "VALID"
	if res.Err != nil {
		status = "ERROR"
	} else if !res.Valid {
		status = "INVALID"
	}
	fmt.Printf("[%s] %s (HTTP %d, %s)\n", status, res.Reference, res.Status, res.Duration)
	if res.Err != nil {
		fmt.Printf("  Error: %v\n", res.Err)
	}
}

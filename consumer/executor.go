package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// execResult is what an executor hands back to the tick loop: either a
// result to complete the job with, or a reason to fail it.
type execResult struct {
	result json.RawMessage
	err    error
}

// executeCrawl performs a plain HTTP GET against target and reports the
// response's status code as the job's result. A non-2xx response is
// treated as a failed attempt, same as a transport error.
func executeCrawl(ctx context.Context, client *http.Client, target string, timeout time.Duration) execResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return execResult{err: fmt.Errorf("invalid target: %w", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return execResult{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return execResult{err: fmt.Errorf("crawl target returned status %d", resp.StatusCode)}
	}

	raw, _ := json.Marshal(map[string]any{"statusCode": resp.StatusCode})
	return execResult{result: raw}
}

func errUnknownType(t string) error {
	return fmt.Errorf("no executor registered for job type %s", t)
}

// executeRank always fails: no executor is registered for rank jobs in
// this system. Reported explicitly on every attempt so the failure shows
// up in job history instead of the job silently never progressing.
func executeRank(context.Context) execResult {
	return execResult{err: fmt.Errorf("no executor registered for job type rank")}
}

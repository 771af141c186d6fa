package framework

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// awaitService polls the service's base URL until it gets any HTTP response. The status code does
// not matter here: public services often answer 404 or an HTML page at their root.
func awaitService(client *http.Client, url string, timeout time.Duration, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Service responded with status %d\n", resp.StatusCode)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}

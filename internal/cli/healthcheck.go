package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthcheckCommand creates a probe suitable for container health checks.
func NewHealthcheckCommand(opts *RootOptions) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit non-zero unless the running API reports ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = "http://127.0.0.1:" + opts.cfg.Port + "/health/ready"
			}
			return probe(cmd.Context(), url, timeout, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "readiness endpoint (default http://127.0.0.1:$PORT/health/ready)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func probe(ctx context.Context, url string, timeout time.Duration, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	fmt.Fprintln(out, string(body))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck: %s returned %d", url, resp.StatusCode)
	}
	return nil
}

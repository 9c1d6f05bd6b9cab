// Standalone fake of the Codemagic build API for trying cmwatch locally.
// Run with: go run ./cmd/fake-codemagic
// Then: CODEMAGIC_BASE_URL=http://localhost:8376 CODEMAGIC_API_TOKEN=dev-token CODEMAGIC_APP_ID=dev-app cmwatch list
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/cmwatch/internal/fakeapi"
)

var (
	port  int
	token string
	appID string
	seed  bool
	limit int
)

var rootCmd = &cobra.Command{
	Use:   "fake-codemagic",
	Short: "Serve a fake Codemagic build API",
	Long: `Serves GET /builds, GET /builds/{id} and POST /builds from memory.
Each build advances one stage every time its details are fetched, so
"cmwatch monitor" sees it run to completion.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVar(&port, "port", 8376, "HTTP server port")
	rootCmd.Flags().StringVar(&token, "token", "dev-token", "API token to accept")
	rootCmd.Flags().StringVar(&appID, "app-id", "dev-app", "Application ID to serve")
	rootCmd.Flags().BoolVar(&seed, "seed", true, "Start with a few sample builds")
	rootCmd.Flags().IntVar(&limit, "rate-limit", 0, "Requests per minute allowed per client before 429 (0 disables)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	api := fakeapi.New(token, appID, fakeapi.WithRateLimit(limit, time.Minute))
	if seed {
		seedBuilds(api)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Printf("Fake Codemagic API running on http://localhost:%d\n", port)
	fmt.Printf("Token: %s  App ID: %s\n", token, appID)
	fmt.Println("\nTry with:")
	fmt.Printf("  export CODEMAGIC_BASE_URL=http://localhost:%d CODEMAGIC_API_TOKEN=%s CODEMAGIC_APP_ID=%s\n", port, token, appID)
	fmt.Println("  cmwatch list")
	fmt.Printf("  curl -X POST http://localhost:%d/builds -H 'x-auth-token: %s' -d '{\"appId\":\"%s\",\"workflowId\":\"ios-release\",\"branch\":\"main\"}'\n", port, token, appID)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedBuilds(api *fakeapi.Server) {
	api.AddBuild(fakeapi.BuildSpec{
		Workflow: "ios-release",
		Branch:   "main",
		Stages:   fakeapi.StagesCanceled,
	})
	api.AddBuild(fakeapi.BuildSpec{
		Workflow: "android-debug",
		Branch:   "feature/login",
		Message:  "Unit tests failed",
		Stages:   fakeapi.StagesFailure,
	})
	api.AddBuild(fakeapi.BuildSpec{
		Workflow: "ios-release",
		Branch:   "main",
		Artifacts: []fakeapi.Artifact{
			{Name: "Runner.ipa", Size: 48_213_504},
			{Name: "Runner.app.dSYM.zip", Size: 3_145_728},
		},
	})
}

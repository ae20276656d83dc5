package loadgen

import (
	"context"
	"eyebench/internal/app/config"
	"eyebench/internal/app/flows"
	"eyebench/internal/app/services/fhir"
	"eyebench/internal/app/services/forms"
	"eyebench/internal/app/services/registry"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newFailingSessionFactory(t *testing.T) func() *flows.Session {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := fhir.NewClient(server.URL, time.Second, nil, nil, zap.NewNop())
	registryService := registry.NewService(client, zap.NewNop())
	formsService := forms.NewService(client, zap.NewNop())
	return func() *flows.Session {
		return flows.NewSession(registryService, formsService, zap.NewNop())
	}
}

func TestRunnerStopBeforeRunStillCancels(t *testing.T) {
	runner := NewRunner(config.Load{
		Users:          1,
		Iterations:     0,
		WaitMinSeconds: 0.01,
		WaitMaxSeconds: 0.01,
	}, newFailingSessionFactory(t), zap.NewNop())

	stopped := make(chan struct{})
	go func() {
		runner.Stop()
		close(stopped)
	}()

	runDone := make(chan struct{})
	go func() {
		runner.Run(context.Background())
		close(runDone)
	}()

	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not observe a stop issued before it started")
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the run finished")
	}
}

func TestRunnerHonoursIterationBudget(t *testing.T) {
	runner := NewRunner(config.Load{
		Users:      2,
		Iterations: 1,
	}, newFailingSessionFactory(t), zap.NewNop())

	runDone := make(chan struct{})
	go func() {
		runner.Run(context.Background())
		close(runDone)
	}()

	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish after the iteration budget was spent")
	}
}

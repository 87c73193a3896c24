package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

func TestHooksRecord(t *testing.T) {
	m := New()
	m.Install()
	t.Cleanup(observability.Reset)
	ctx := context.Background()

	observability.Diagram().OnBuildComplete(ctx, "demo", 9, 3, 20*time.Millisecond)
	observability.Diagram().OnBuildComplete(ctx, "demo", 10, 4, 10*time.Millisecond)
	observability.Diagram().OnSeed(ctx, "demo", 3, time.Millisecond)
	observability.Interaction().OnEvent(ctx, "nodeClick", "user")
	observability.Interaction().OnIntent(ctx, "navigateToIssue")
	observability.Store().OnLoad(ctx, "file", false)
	observability.Store().OnSave(ctx, "file", 120, nil)
	observability.Store().OnSave(ctx, "file", 0, errors.New("disk full"))
	observability.Store().OnRecovered(ctx, "redis", errors.New("bad json"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"builds", testutil.ToFloat64(m.buildsTotal.WithLabelValues("demo")), 2},
		{"nodes gauge", testutil.ToFloat64(m.diagramNodes.WithLabelValues("demo")), 10},
		{"edges gauge", testutil.ToFloat64(m.diagramEdges.WithLabelValues("demo")), 4},
		{"seeded", testutil.ToFloat64(m.seededTotal.WithLabelValues("demo")), 3},
		{"events", testutil.ToFloat64(m.eventsTotal.WithLabelValues("nodeClick", "user")), 1},
		{"intents", testutil.ToFloat64(m.intentsTotal.WithLabelValues("navigateToIssue")), 1},
		{"loads", testutil.ToFloat64(m.loadsTotal.WithLabelValues("file", "false")), 1},
		{"saves ok", testutil.ToFloat64(m.savesTotal.WithLabelValues("file", "ok")), 1},
		{"saves error", testutil.ToFloat64(m.savesTotal.WithLabelValues("file", "error")), 1},
		{"recovered", testutil.ToFloat64(m.recoveredTotal.WithLabelValues("redis")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.intentsTotal.WithLabelValues("navigateToComponent").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `issuegraph_intents_total{intent="navigateToComponent"} 1`) {
		t.Errorf("metrics output missing intent counter:\n%s", rec.Body.String())
	}
}

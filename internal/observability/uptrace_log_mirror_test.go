package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestDropFromExport(t *testing.T) {
	t.Parallel()

	if !dropFromExport("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be dropped")
	}
	if !dropFromExport("http request", []any{"method", "GET", "path", "/metrics"}) {
		t.Fatalf("expected metrics scrape log to be dropped")
	}
	if dropFromExport("http request", []any{"method", "GET", "path", "/v1/event/summary"}) {
		t.Fatalf("did not expect domain request log to be dropped")
	}
	if dropFromExport("webhook ping received", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be dropped")
	}
}

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]any{"event_key", "2025mokc", "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("unexpected attribute count: got=%d want=3", len(attrs))
	}
	if attrs[0].Key != "event_key" || attrs[0].Value.AsString() != "2025mokc" {
		t.Fatalf("unexpected event_key attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[2])
	}
}

func TestLogSeverity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level zapcore.Level
		want  otellog.Severity
	}{
		{zapcore.DebugLevel, otellog.SeverityDebug},
		{zapcore.InfoLevel, otellog.SeverityInfo},
		{zapcore.WarnLevel, otellog.SeverityWarn},
		{zapcore.ErrorLevel, otellog.SeverityError},
		{zapcore.PanicLevel, otellog.SeverityFatal},
	}
	for i := 0; i < len(cases); i++ {
		if got := logSeverity(cases[i].level); got != cases[i].want {
			t.Fatalf("level %s: got=%v want=%v", cases[i].level, got, cases[i].want)
		}
	}
}

func TestLogValue(t *testing.T) {
	t.Parallel()

	t.Run("map sorts keys", func(t *testing.T) {
		v := logValue(map[string]any{"wins": 11, "losses": 2}, 0)
		if v.Kind() != otellog.KindMap {
			t.Fatalf("expected map value, got %s", v.Kind())
		}
		items := v.AsMap()
		if len(items) != 2 || items[0].Key != "losses" || items[1].Key != "wins" {
			t.Fatalf("unexpected map items: %+v", items)
		}
	})

	t.Run("slice of match keys", func(t *testing.T) {
		v := logValue([]string{"2025mokc_qm1", "2025mokc_qm2"}, 0)
		if v.Kind() != otellog.KindSlice {
			t.Fatalf("expected slice value, got %s", v.Kind())
		}
		if items := v.AsSlice(); len(items) != 2 || items[0].AsString() != "2025mokc_qm1" {
			t.Fatalf("unexpected slice items: %+v", items)
		}
	})

	t.Run("error renders message", func(t *testing.T) {
		v := logValue(errors.New("tba status 404"), 0)
		if v.AsString() != "tba status 404" {
			t.Fatalf("unexpected error value: %q", v.AsString())
		}
	})

	t.Run("duration renders text", func(t *testing.T) {
		if got := logValue(90*time.Second, 0).AsString(); got != "1m30s" {
			t.Fatalf("unexpected duration value: %q", got)
		}
	})

	t.Run("nil pointer is empty", func(t *testing.T) {
		var p *int
		if got := logValue(p, 0); got.Kind() != otellog.KindEmpty {
			t.Fatalf("expected empty value, got %s", got.Kind())
		}
	})
}

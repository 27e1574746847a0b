package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

const (
	logScopeName        = "swat-website/internal/platform/logging"
	httpRequestLogEvent = "http request"

	// Nested attribute values flatten to strings past this depth.
	maxAttrDepth = 3
)

// newUptraceLogMirror adapts the zap mirror hook to the OTel log bridge so
// every accepted record also lands in Uptrace next to its trace.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	bridge := otelglobal.Logger(
		logScopeName,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if dropFromExport(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := logSeverity(level)
		if !bridge.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var record otellog.Record
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		if attrs := logAttributes(args); len(attrs) > 0 {
			record.AddAttributes(attrs...)
		}

		bridge.Emit(ctx, record)
	}
}

// dropFromExport filters probe traffic out of the exported stream. Liveness
// checks and Prometheus scrapes hit every few seconds and would crowd out
// the logs worth reading.
func dropFromExport(msg string, args []any) bool {
	if msg != httpRequestLogEvent {
		return false
	}
	path, ok := requestPath(args)
	return ok && (path == "/healthz" || path == "/metrics")
}

func requestPath(args []any) (string, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		key, keyOK := args[i].(string)
		if !keyOK || key != "path" {
			continue
		}
		path, ok := args[i+1].(string)
		return path, ok
	}
	return "", false
}

// logAttributes converts the alternating key/value slice the logging package
// hands through. A trailing key without a value becomes an empty attribute,
// and non-string keys get positional names so nothing is silently dropped.
func logAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}
	return attrs
}

func logSeverity(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.InfoLevel:
		return otellog.SeverityInfo
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	}
	if level < zapcore.DebugLevel {
		return otellog.SeverityDebug
	}
	return otellog.SeverityFatal
}

// logValue maps an arbitrary Go value onto the OTel log value model. Types
// with an obvious text form are handled up front; the reflection path covers
// containers and named types.
func logValue(value any, depth int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if depth >= maxAttrDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Bool:
		return otellog.BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return otellog.StringValue(fmt.Sprint(value))
		}
		return otellog.Int64Value(int64(u))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return logValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		return sequenceLogValue(rv, depth)
	case reflect.Map:
		return mapLogValue(rv, value, depth)
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}

func sequenceLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return otellog.BytesValue(out)
	}
	items := make([]otellog.Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = logValue(rv.Index(i).Interface(), depth+1)
	}
	return otellog.SliceValue(items...)
}

// Map keys are sorted so repeated emissions of the same payload carry their
// attributes in a stable order.
func mapLogValue(rv reflect.Value, original any, depth int) otellog.Value {
	if rv.Type().Key().Kind() != reflect.String {
		return otellog.StringValue(fmt.Sprint(original))
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	kvs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		kvs = append(kvs, otellog.KeyValue{
			Key:   key.String(),
			Value: logValue(rv.MapIndex(key).Interface(), depth+1),
		})
	}
	return otellog.MapValue(kvs...)
}

package observability

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

const uptraceLogScope = "dbb-sync/internal/platform/logging"

// quietPaths are request paths whose access logs stay out of Uptrace.
var quietPaths = map[string]struct{}{
	"/healthz":      {},
	"/openapi.yaml": {},
}

// newUptraceLogMirror forwards every written log entry to the global
// OpenTelemetry logger provider configured by uptrace-go.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(uptraceLogScope, otellog.WithInstrumentationVersion(serviceVersion))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isQuietAccessLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := otelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
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
		record.AddAttributes(otelAttributes(args)...)

		otelLogger.Emit(ctx, record)
	}
}

func isQuietAccessLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, _ := args[i].(string); key == "path" {
			path, _ := args[i+1].(string)
			_, quiet := quietPaths[path]
			return quiet
		}
	}
	return false
}

// otelAttributes converts logger key/value pairs. A non-string key is named
// after its position; a trailing key without value becomes an empty attribute.
func otelAttributes(args []any) []otellog.KeyValue {
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
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: otelValue(args[i+1], 0)})
	}
	return attrs
}

func otelSeverity(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.InfoLevel:
		return otellog.SeverityInfo
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		if level < zapcore.DebugLevel {
			return otellog.SeverityDebug
		}
		return otellog.SeverityFatal
	}
}

func otelValue(value any, depth int) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= 1<<63-1 {
			return otellog.Int64Value(int64(u))
		}
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer:
		if rv.IsNil() {
			return otellog.Value{}
		}
		if depth < 3 {
			return otelValue(rv.Elem().Interface(), depth+1)
		}
	case reflect.Slice, reflect.Array:
		if depth < 3 {
			items := make([]otellog.Value, rv.Len())
			for i := range items {
				items[i] = otelValue(rv.Index(i).Interface(), depth+1)
			}
			return otellog.SliceValue(items...)
		}
	case reflect.Map:
		if depth < 3 && rv.Type().Key().Kind() == reflect.String {
			kvs := make([]otellog.KeyValue, 0, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				kvs = append(kvs, otellog.KeyValue{Key: iter.Key().String(), Value: otelValue(iter.Value().Interface(), depth+1)})
			}
			return otellog.MapValue(kvs...)
		}
	}
	return otellog.StringValue(fmt.Sprint(value))
}

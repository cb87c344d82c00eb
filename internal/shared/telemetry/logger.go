package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

var serviceName atomic.Value

// SetService tags every subsequent log line with the given service name.
func SetService(name string) {
	serviceName.Store(name)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write("warn", msg, fields)
}

// Error writes an error-level log line with the given fields.
// Values of type error are rendered with their message.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

func write(level, msg string, fields map[string]any) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = now
	entry["level"] = level
	entry["msg"] = msg
	if svc, ok := serviceName.Load().(string); ok && svc != "" {
		entry["service"] = svc
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stdout, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", now, err.Error())
		return
	}
	fmt.Fprintln(os.Stdout, string(data))
}

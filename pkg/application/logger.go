package application

import (
	"context"
	"encoding/json"
)

// AppLogger is the logging port used across the service. Fields are
// attached as structured key/value pairs by the adapter.
type AppLogger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
	Trace(ctx context.Context, msg string, fields map[string]interface{})
}

// LogError logs msg with fields and err under the "error" key.
// The caller's map is never modified.
func LogError(ctx context.Context, logger AppLogger, message string, err error, fields map[string]interface{}) {
	logData := copyFields(fields, 1)
	if err != nil {
		logData["error"] = err.Error()
	}
	logger.Error(ctx, message, logData)
}

func LogInfo(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Info(ctx, message, copyFields(fields, 0))
}

func LogDebug(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Debug(ctx, message, copyFields(fields, 0))
}

func copyFields(fields map[string]interface{}, extra int) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+extra)
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// MarshalPayload encodes an event or command payload for the wire.
func MarshalPayload[T any](payload T) ([]byte, error) {
	return json.Marshal(payload)
}

// UnmarshalPayload is the inverse of MarshalPayload.
func UnmarshalPayload[T any](data []byte) (T, error) {
	var payload T
	err := json.Unmarshal(data, &payload)
	return payload, err
}

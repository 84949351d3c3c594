package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log = zap.NewNop()
)

// RequestIDKey is the gin key holding the request ID
const RequestIDKey = "request_id"

type requestIDCtxKey struct{}

// Initialize sets up the logger for the given environment and installs it as
// the zap global.
func Initialize(env string) *zap.Logger {
	return InitializeWithWriter(env, nil)
}

// InitializeWithWriter is Initialize with an optional extra sink, e.g. a
// CloudWatch Logs writer. The extra sink always receives JSON.
func InitializeWithWriter(env string, extra io.Writer) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if extra != nil {
		jsonConfig := config.EncoderConfig
		jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		jsonConfig.TimeKey = "timestamp"
		jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		sink := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(extra), config.Level)
		l = l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, sink)
		}))
	}

	Log = l
	zap.ReplaceGlobals(l)
	return l
}

// Error logs an error with request ID and additional context
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", RequestID(ctx)))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Log.Error(msg, fields...)
}

// Info logs an info message with request ID and additional context
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", RequestID(ctx)))
	Log.Info(msg, fields...)
}

// Debug logs a debug message with request ID and additional context
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", RequestID(ctx)))
	Log.Debug(msg, fields...)
}

// Warn logs a warning message with request ID and additional context
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", RequestID(ctx)))
	Log.Warn(msg, fields...)
}

// RequestID extracts the request ID from a gin context or a plain context
// derived with WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if id := ginCtx.GetString(RequestIDKey); id != "" {
			return id
		}
		if ginCtx.Request != nil {
			ctx = ginCtx.Request.Context()
		}
	}
	if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// WithRequestID returns a copy of ctx carrying the given request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

package core

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

const loggerContextKey contextKey = "logger"

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}

	return zap.L()
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	if correlationID := CorrelationID(ctx); correlationID != "" {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}

	Logger(ctx).Error(msg, fields...)
}

// Redactor is implemented by requests carrying secrets. The logging
// behavior logs the redacted value instead of the request.
type Redactor interface {
	Redacted() interface{}
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	logFields := []zap.Field{zap.String("request_type", fmt.Sprintf("%T", request))}

	if correlationID := CorrelationID(ctx); correlationID != "" {
		logFields = append(logFields, zap.String("correlation_id", correlationID))
	}

	if session, ok := Session(ctx); ok {
		logFields = append(logFields, zap.Int64("user_id", session.UserID))
	}

	if request != nil {
		body := request
		if redactor, ok := request.(Redactor); ok {
			body = redactor.Redacted()
		}
		logFields = append(logFields, zap.Any("request_body", body))
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err == nil {
		return response, err
	}

	statusCode := StatusCode(err)
	fields := []zap.Field{
		zap.String("request_type", fmt.Sprintf("%T", request)),
		zap.String("correlation_id", CorrelationID(ctx)),
		zap.Int("status_code", statusCode),
		zap.Error(err),
	}

	// Client errors such as 400 and 404 are expected outcomes.
	if statusCode < http.StatusInternalServerError {
		b.Logger.Info("handler returned error", fields...)
	} else {
		b.Logger.Error("handler returned error", fields...)
	}

	return response, err
}

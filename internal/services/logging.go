package services

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// maxLoggedFieldErrors caps how many field errors one log line carries
const maxLoggedFieldErrors = 5

// ServiceLogger writes one outcome line per service operation plus an audit
// line for every change that was committed
type ServiceLogger struct {
	logger *slog.Logger
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

// outcome picks the level and status label for an operation error. Expected
// caller mistakes stay below error level.
func outcome(err error) (slog.Level, string) {
	switch {
	case err == nil:
		return slog.LevelInfo, "success"
	case IsValidation(err), IsBadRequest(err):
		return slog.LevelWarn, "rejected"
	case IsUnauthorized(err), IsForbidden(err):
		return slog.LevelWarn, "unauthorized"
	case IsNotFound(err):
		return slog.LevelInfo, "not_found"
	case IsConflict(err):
		return slog.LevelInfo, "conflict"
	default:
		return slog.LevelError, "error"
	}
}

// ===== AUDIT =====

type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
)

// ===== PER-OPERATION LOGGER =====

// OperationLog times one operation for one actor
type OperationLog struct {
	parent    *ServiceLogger
	ctx       context.Context
	operation string
	actorID   string
	started   time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, actorID string) *OperationLog {
	return &OperationLog{
		parent:    l,
		ctx:       ctx,
		operation: operation,
		actorID:   actorID,
		started:   time.Now(),
	}
}

// LogResult is meant to be deferred with the named error result
func (o *OperationLog) LogResult(resourceID uint, resourceType string, err error) {
	level, status := outcome(err)

	attrs := []slog.Attr{
		slog.String("operation", o.operation),
		slog.String("actor_id", o.actorID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", time.Since(o.started)),
	}
	if resourceID != 0 {
		attrs = append(attrs, slog.Uint64("resource_id", uint64(resourceID)))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var fieldErrs ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, maxLoggedFieldErrors)
			for i, fe := range fieldErrs {
				if i == maxLoggedFieldErrors {
					break
				}
				fields = append(fields, fe.Field)
			}
			attrs = append(attrs,
				slog.Int("validation_errors_count", len(fieldErrs)),
				slog.Any("invalid_fields", fields))
		}
	}

	o.parent.logger.LogAttrs(o.ctx, level, o.operation+" "+status, attrs...)
}

func (o *OperationLog) LogAudit(eventType AuditEventType, resourceID uint, resourceType string, metadata map[string]any) {
	attrs := []slog.Attr{
		slog.String("audit", string(eventType)),
		slog.String("actor_id", o.actorID),
		slog.String("resource_type", resourceType),
		slog.String("action", o.operation),
	}
	if resourceID != 0 {
		attrs = append(attrs, slog.Uint64("resource_id", uint64(resourceID)))
	}
	if len(metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", metadata))
	}

	o.parent.logger.LogAttrs(o.ctx, slog.LevelInfo, "Audit: "+o.operation, attrs...)
}

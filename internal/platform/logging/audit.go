package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent describes a store mutation for the audit trail.
//
// Actor is whoever the request acted on behalf of (usually an email address);
// it may be empty for anonymous writes such as a seeker creating a request.
type AuditEvent struct {
	Action       string
	Actor        string
	ResourceType string
	ResourceID   string
	Result       string
	Details      map[string]any
}

// LogAudit writes e using the request-aware logger.
func LogAudit(ctx context.Context, e AuditEvent) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", e.Action),
		zap.String("audit.actor", e.Actor),
		zap.String("audit.resource_type", e.ResourceType),
		zap.String("audit.resource_id", e.ResourceID),
		zap.String("audit.result", e.Result),
		zap.Any("audit.details", e.Details),
	)
}

// LogAuditResult records a success when err is nil and a failure carrying
// category(err) otherwise. category must map errors to audit-safe strings.
func LogAuditResult(ctx context.Context, e AuditEvent, err error, category func(error) string) {
	if err == nil {
		e.Result = AuditSuccess
		LogAudit(ctx, e)
		return
	}
	e.Result = AuditFailure
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details["error"] = category(err)
	LogAudit(ctx, e)
}

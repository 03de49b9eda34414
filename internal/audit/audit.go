package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"erp-portal/internal/session"
	"erp-portal/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeAnonymous ActorType = "anonymous"
	ActorTypeSystem    ActorType = "system"
)

// Action represents the action being audited
type Action string

const (
	ActionAccess       Action = "access"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
	ActionReloadGrants Action = "reload_grants"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

const writeTimeout = 2 * time.Second

const insertEventSQL = `
	INSERT INTO audit_events (
		id, event_type, actor_type, actor_id, resource, action, status,
		ip_address, user_agent, request_id, metadata, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// Event represents an audit event. Resource is a permission key or a path.
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      *uuid.UUID
	Resource     string
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Execer is the part of a pgx pool the logger writes through
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Logger writes audit events to the structured log and, when a database is
// configured, to the audit_events table
type Logger struct {
	db      Execer
	log     *zap.Logger
	pending sync.WaitGroup
}

// NewLogger creates an audit logger. db may be nil.
func NewLogger(db Execer, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{db: db, log: log.Named("audit")}
}

// Log records an audit event synchronously
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.String("actor_type", string(event.ActorType)),
		zap.String("resource", event.Resource),
		zap.String("status", string(event.Status)),
		zap.String("request_id", event.RequestID),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.String()))
	}
	if event.ErrorMessage != "" {
		event.ErrorMessage = logger.SanitizeLogMessage(event.ErrorMessage)
		fields = append(fields, zap.String("error", event.ErrorMessage))
	}
	if event.Metadata != nil {
		event.Metadata = logger.SanitizeMap(event.Metadata)
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}
	l.log.Info("audit event", fields...)

	if l.db == nil {
		return nil
	}

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := l.db.Exec(ctx, insertEventSQL,
		event.ID,
		event.EventType,
		event.ActorType,
		event.ActorID,
		event.Resource,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)
	return err
}

// LogFromContext builds an event from the request and records it
// asynchronously; it never blocks the request
func (l *Logger) LogFromContext(c echo.Context, action Action, status Status, resource string, metadata map[string]any) {
	event := &Event{
		EventType: string(action) + "_" + string(status),
		Resource:  resource,
		Action:    action,
		Status:    status,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:  metadata,
	}

	if sess := session.FromContext(c.Request().Context()); sess.Authenticated() {
		uid := sess.UserID
		event.ActorType = ActorTypeUser
		event.ActorID = &uid
	} else {
		event.ActorType = ActorTypeAnonymous
	}

	l.logAsync(event)
}

// LogSystem records an event not tied to a request, such as a SIGHUP reload
func (l *Logger) LogSystem(action Action, status Status, resource string, err error) {
	event := &Event{
		EventType: string(action) + "_" + string(status),
		ActorType: ActorTypeSystem,
		Resource:  resource,
		Action:    action,
		Status:    status,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	l.logAsync(event)
}

// Flush waits for pending asynchronous writes
func (l *Logger) Flush() {
	l.pending.Wait()
}

func (l *Logger) logAsync(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			l.log.Warn("audit log failed", zap.Error(err))
		}
	}()
}

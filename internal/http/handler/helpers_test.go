package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"erp-portal/internal/audit"
	"erp-portal/internal/rbac/presets"
	"erp-portal/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type recordedEvent struct {
	action audit.Action
	status audit.Status
}

type fakeAudit struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeAudit) LogFromContext(_ echo.Context, action audit.Action, status audit.Status, _ string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{action: action, status: status})
}

func (f *fakeAudit) recorded() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.events...)
}

func sessionFor(roles ...session.Role) *session.Session {
	return &session.Session{
		UserID:      uuid.New(),
		AccessToken: "access",
		Roles:       roles,
		Grants:      presets.Business().GrantsFor(roles),
	}
}

func newContext(method, target string, body io.Reader, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sess != nil {
		req = req.WithContext(session.NewContext(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

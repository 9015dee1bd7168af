package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/handlers"
	"pharmacy-dashboard/internal/logger"
	"pharmacy-dashboard/internal/page"
)

const (
	// SessionCookieName names the browser session cookie
	SessionCookieName = "pharmacy-dashboard"

	sessionIDKey  = "sid"
	evictInterval = time.Minute
)

// SessionFactory builds the page and controller of a new browser session
type SessionFactory func(id string) *handlers.Session

// NewSessionFactory returns a factory wiring a fresh page to a controller
// that talks to remote. All sessions share remote and its metadata cache.
func NewSessionFactory(remote dashboard.Remote, threshold float64, log *logger.Logger) SessionFactory {
	return func(id string) *handlers.Session {
		p := page.New()
		ctrl := dashboard.New(remote, p, p.Widgets(), dashboard.Config{
			DefaultThreshold: threshold,
			Logger:           log.WithSessionID(id).Logger,
		})
		return &handlers.Session{ID: id, Page: p, Controller: ctrl}
	}
}

type registryEntry struct {
	session  *handlers.Session
	lastSeen time.Time
}

// Registry maps the session cookie of a browser to its dashboard session.
// The cookie only carries a random id; all state stays in memory and is
// evicted after the idle timeout.
type Registry struct {
	store   sessions.Store
	factory SessionFactory
	idle    time.Duration
	logger  *logger.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRegistry creates a registry and starts its eviction loop
func NewRegistry(store sessions.Store, factory SessionFactory, idle time.Duration, log *logger.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	reg := &Registry{
		store:   store,
		factory: factory,
		idle:    idle,
		logger:  log,
		entries: make(map[string]*registryEntry),
		ctx:     ctx,
		cancel:  cancel,
	}
	go reg.evictLoop()
	return reg
}

// NewCookieStore creates the cookie store holding session ids
func NewCookieStore(hashKey []byte, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Find returns the session of the request, creating it when the cookie is
// missing, unreadable or refers to an evicted session. The cookie is
// re-issued on every call so its expiry slides with activity.
func (reg *Registry) Find(w http.ResponseWriter, r *http.Request) (*handlers.Session, error) {
	cookie, err := reg.store.Get(r, SessionCookieName)
	if err != nil {
		// Tampered or signed with an old key; start over
		reg.logger.Debug().Err(err).Msg("discarding unreadable session cookie")
	}
	if cookie == nil {
		cookie = sessions.NewSession(reg.store, SessionCookieName)
	}

	id, _ := cookie.Values[sessionIDKey].(string)
	now := time.Now()

	reg.mu.Lock()
	entry, ok := reg.entries[id]
	if !ok {
		id = uuid.NewString()
		entry = &registryEntry{session: reg.factory(id)}
		reg.entries[id] = entry
		reg.logger.WithSessionID(id).Debug().Msg("created browser session")
	}
	entry.lastSeen = now
	reg.mu.Unlock()

	cookie.Values[sessionIDKey] = id
	if err := cookie.Save(r, w); err != nil {
		return nil, err
	}
	return entry.session, nil
}

// Len returns the number of live sessions
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.entries)
}

func (reg *Registry) evictLoop() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-reg.ctx.Done():
			return
		case <-ticker.C:
			reg.evictIdle(time.Now())
		}
	}
}

// evictIdle drops sessions not seen since now minus the idle timeout
func (reg *Registry) evictIdle(now time.Time) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	evicted := 0
	for id, entry := range reg.entries {
		if now.Sub(entry.lastSeen) > reg.idle {
			delete(reg.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		reg.logger.Debug().Int("evicted", evicted).Int("remaining", len(reg.entries)).Msg("evicted idle browser sessions")
	}
	return evicted
}

// Close stops the eviction loop
func (reg *Registry) Close() {
	reg.cancel()
}

package mvc

import (
	"net/url"

	"github.com/google/uuid"
)

// Globals is the ambient request state shared by the applications a test
// builds: session, cookies, get and post buffers and the shared event
// registry.
type Globals struct {
	// Session is nil until something starts a session.
	Session   map[string]any
	SessionID string
	Cookie    map[string]string
	Get       url.Values
	Post      url.Values

	SharedEvents *SharedEventManager
}

func NewGlobals() *Globals {
	return &Globals{
		Cookie:       map[string]string{},
		Get:          url.Values{},
		Post:         url.Values{},
		SharedEvents: NewSharedEventManager(),
	}
}

func (g *Globals) HasSession() bool {
	return g.Session != nil
}

// StartSession returns the session, creating it with a fresh identifier when
// none exists.
func (g *Globals) StartSession() map[string]any {
	if g.Session == nil {
		g.Session = map[string]any{}
		g.SessionID = uuid.NewString()
	}
	return g.Session
}

// Reset clears request buffers and the shared event registry. Session and
// cookies are cleared unless keepPersistence is set; an absent session is
// never created.
func (g *Globals) Reset(keepPersistence bool) {
	if !keepPersistence {
		if g.Session != nil {
			g.Session = map[string]any{}
		}
		g.Cookie = map[string]string{}
	}
	g.Get = url.Values{}
	g.Post = url.Values{}
	g.SharedEvents = NewSharedEventManager()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Package appctx holds the per-session application context: the session, the
// capability set and the domain stores, created together on login or restore
// and disposed together on logout. It replaces any notion of cross-session
// shared state — two sessions never observe each other's stores.
package appctx

import (
	"context"
	"sync"

	"github.com/eduspace/web/core/assignment"
	"github.com/eduspace/web/core/permission"
	"github.com/eduspace/web/core/profile"
	"github.com/eduspace/web/core/session"
	"github.com/eduspace/web/core/subject"
)

// Repositories bundles the remote-API slices a context fetches from on
// creation.
type Repositories struct {
	Permissions permission.Repository
	Profile     profile.Repository
}

// Context is one authenticated session's application state.
type Context struct {
	Session     *session.Session
	Permissions *permission.State
	Profile     *profile.Store
	Subjects    *subject.Store
	Assignments *assignment.Store

	mu      sync.Mutex
	watcher *assignment.Watcher
}

// Create builds the context and kicks off the once-per-session permission and
// profile fetches. Failures land in the respective stores, never here.
func Create(ctx context.Context, sess *session.Session, repos Repositories) *Context {
	c := &Context{
		Session:     sess,
		Permissions: permission.NewState(),
		Profile:     profile.NewStore(),
		Subjects:    subject.NewStore(),
		Assignments: assignment.NewStore(),
	}
	credential := sess.Credential()
	go func() { _ = c.Permissions.Fetch(ctx, repos.Permissions, credential) }()
	go func() { _ = c.Profile.Fetch(ctx, repos.Profile, credential) }()
	return c
}

// SetWatcher installs the deadline watcher for the assignment view currently
// on screen, stopping any previous one. A nil watcher just clears the slot.
func (c *Context) SetWatcher(w *assignment.Watcher) {
	c.mu.Lock()
	prev := c.watcher
	c.watcher = w
	c.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

func (c *Context) Watcher() *assignment.Watcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watcher
}

// Dispose stops background work owned by the context. The stores themselves
// are dropped with the context by the registry.
func (c *Context) Dispose() {
	c.SetWatcher(nil)
}

// Registry maps live credentials to their contexts. One context per
// credential; creation is lazy on first authenticated request.
type Registry struct {
	mu    sync.Mutex
	ctxs  map[string]*Context
	repos Repositories
}

func NewRegistry(repos Repositories) *Registry {
	return &Registry{
		ctxs:  make(map[string]*Context),
		repos: repos,
	}
}

// Get returns the context for the session's credential, creating it when the
// session is seen for the first time (login or cookie restore).
func (r *Registry) Get(ctx context.Context, sess *session.Session) *Context {
	credential := sess.Credential()

	r.mu.Lock()
	if c, ok := r.ctxs[credential]; ok {
		r.mu.Unlock()
		return c
	}
	r.mu.Unlock()

	c := Create(ctx, sess, r.repos)

	r.mu.Lock()
	defer r.mu.Unlock()
	// lost the race: keep the first one, drop ours
	if existing, ok := r.ctxs[credential]; ok {
		c.Dispose()
		return existing
	}
	r.ctxs[credential] = c
	return c
}

// Dispose tears down and forgets the credential's context. Safe to call for
// credentials that never had one.
func (r *Registry) Dispose(credential string) {
	r.mu.Lock()
	c, ok := r.ctxs[credential]
	delete(r.ctxs, credential)
	r.mu.Unlock()
	if ok {
		c.Dispose()
	}
}

package gateway

import (
	"uniconnect/internal/featureflags"
	"uniconnect/internal/models"
)

// Router picks the backend for an actor: the remote service when the role's
// remote flag is on, the in-process backend otherwise.
type Router struct {
	remote Backend
	local  Backend
	flags  *featureflags.Manager
}

// NewRouter builds a router. A nil flags manager routes everyone locally.
func NewRouter(remote, local Backend, flags *featureflags.Manager) *Router {
	return &Router{remote: remote, local: local, flags: flags}
}

// For returns the backend serving role and actorID.
func (r *Router) For(role models.Role, actorID string) Backend {
	if r.remote != nil && r.flags.RemoteFor(role, actorID) {
		return r.remote
	}
	return r.local
}

// Remote reports whether role and actorID are served remotely.
func (r *Router) Remote(role models.Role, actorID string) bool {
	return r.remote != nil && r.flags.RemoteFor(role, actorID)
}

package auth

import "real_estate_api/internal/domain" // Role constants

// Actor is the authenticated identity extracted from the request token.
type Actor struct {
	ID       uint   // User ID
	Username string // Username claim
	Role     string // Role claim
}

// Action names an operation subject to an authorization rule.
type Action string

// Actions
const (
	ActionViewUser            Action = "user.view"            // GET /register/:id
	ActionUpdateUser          Action = "user.update"          // PUT /register/:id
	ActionDeleteUser          Action = "user.delete"          // DELETE /register/:id
	ActionUpdateProperty      Action = "property.update"      // PUT /properties/:id
	ActionDeleteProperty      Action = "property.delete"      // DELETE /properties/:id
	ActionReviewApplication   Action = "application.review"   // PUT /applications/:id
	ActionListAllApplications Action = "application.list_all" // GET /applications/agent
)

// Resource exposes the identity an ownership rule is checked against: the
// account's own ID for user resources, the listing user's ID for properties.
// Actions with purely role-based rules take a nil resource.
type Resource interface {
	OwnerID() uint
}

// rule decides a single action.
type rule func(actor Actor, resource Resource) bool

// selfOrAdmin permits the resource's own identity or an admin.
func selfOrAdmin(actor Actor, resource Resource) bool {
	return actor.Role == domain.RoleAdmin || actor.ID == resource.OwnerID()
}

// ownerOnly permits exactly the resource's owner. There is no admin override
// for property mutation.
func ownerOnly(actor Actor, resource Resource) bool {
	return actor.ID == resource.OwnerID()
}

// agentOrAdmin permits the reviewing roles regardless of resource.
func agentOrAdmin(actor Actor, _ Resource) bool {
	return actor.Role == domain.RoleAgent || actor.Role == domain.RoleAdmin
}

// Authorizer evaluates one declarative rule per action, so every handler
// applies the same predicate instead of re-implementing role checks ad hoc.
type Authorizer struct {
	rules map[Action]rule // Action to rule table
}

// NewAuthorizer returns the authorizer with the full rule table.
func NewAuthorizer() *Authorizer {
	return &Authorizer{rules: map[Action]rule{
		ActionViewUser:            selfOrAdmin,  // Account reads
		ActionUpdateUser:          selfOrAdmin,  // Account updates
		ActionDeleteUser:          selfOrAdmin,  // Account deletion
		ActionUpdateProperty:      ownerOnly,    // Listing updates
		ActionDeleteProperty:      ownerOnly,    // Listing deletion
		ActionReviewApplication:   agentOrAdmin, // Status transitions
		ActionListAllApplications: agentOrAdmin, // System-wide listing
	}}
}

// Allows reports whether the actor may perform the action on the resource.
// Unknown actions are denied.
func (a *Authorizer) Allows(actor Actor, action Action, resource Resource) bool {
	r, ok := a.rules[action]
	if !ok {
		return false // Deny anything without an explicit rule
	}
	return r(actor, resource)
}

// AccountRef adapts a bare user ID to a Resource for self-or-admin checks.
type AccountRef uint

// OwnerID returns the account's own ID.
func (r AccountRef) OwnerID() uint { return uint(r) }

// ListingRef adapts a property's listed_by ID to a Resource for owner checks.
type ListingRef uint

// OwnerID returns the listing user's ID.
func (r ListingRef) OwnerID() uint { return uint(r) }

// Package authz implements the hierarchical authorization engine.
//
// Every sensitive action in the system is a named capability. A role grants
// each capability at one of three scopes: none, subordinates (the actor's
// direct reports plus the actor themselves) or all. Evaluate resolves an
// actor and a capability into a Decision; callers combine decisions for
// several capabilities with EvaluateAny (logical OR, never AND).
//
// The package also houses the hierarchy guard: the pure rank predicates
// gating user and role administration.
package authz

// Package workflow implements the shared request lifecycle engine.
//
// Leave requests, on-duty logs and time-off logs all move through the same
// state machine (pending -> approved/rejected, with reversion back to
// pending). The engine is written once against a shared Request snapshot and
// a Store port; the kind-specific pieces are the overlap rule and, for
// on-duty, the open/close sub-machine that precedes the approval workflow.
//
// The engine gates every transition through the authorization engine, returns
// typed errors and never logs or retries.
package workflow

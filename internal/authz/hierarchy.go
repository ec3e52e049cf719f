package authz

// The hierarchy guard gates user and role administration with numeric rank
// comparison instead of capability scopes. Rank 0 is the highest authority;
// larger values are progressively lower. Every call site that needs the
// same-rank manager exception delegates here instead of re-deriving it.

// CanActOnRole reports whether an actor holding actorRank may act on a user
// holding targetRank. Used for editing a user, resetting a password and
// assigning leave-type allotments.
//
// A rank-0 actor is unconstrained. Otherwise the target must hold strictly
// lower authority, with one exception: an equal-rank target is allowed when
// the actor is the target's approving manager.
func CanActOnRole(actorRank, targetRank uint, isDirectManagerOfTarget bool) bool {
	if actorRank == 0 {
		return true
	}

	if targetRank > actorRank {
		return true
	}

	return targetRank == actorRank && isDirectManagerOfTarget
}

// CanAssignRole reports whether an actor holding actorRank may grant a role
// holding newRoleRank. Used for user creation, role assignment and for
// rejecting role edits that would raise a rank to or above the editor's own.
//
// An actor can never grant a role at or above their own authority unless
// their rank is 0.
func CanAssignRole(actorRank, newRoleRank uint) bool {
	if actorRank == 0 {
		return true
	}

	return newRoleRank > actorRank
}

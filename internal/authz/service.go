package authz

import (
	"errors"
	"fmt"

	"github.com/attenda/attenda/internal/db/models"
)

// Directory is the read port the engine resolves actors against.
// Implementations return ErrUserNotFound / ErrRoleNotFound for unknown ids;
// any other error is treated as infrastructure failure and propagated.
type Directory interface {
	GetUser(id uint64) (*models.User, error)
	GetRole(id uint) (*models.Role, error)
	// GetDirectReportIDs returns the ids of users whose approving manager is
	// the given user. One hop only, never the transitive subtree.
	GetDirectReportIDs(managerID uint64) ([]uint64, error)
}

// Service evaluates capabilities against the directory snapshot.
// It is stateless between calls and never logs; absent users or roles yield
// Denied, not an error.
type Service struct {
	dir Directory
}

// NewService creates a new authorization service.
func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// Evaluate computes the access decision for one actor and one capability.
func (s *Service) Evaluate(actorID uint64, capability Capability) (Decision, error) {
	user, err := s.dir.GetUser(actorID)
	if errors.Is(err, ErrUserNotFound) {
		return Decision{Access: Denied}, nil
	}

	if err != nil {
		return Decision{}, fmt.Errorf("failed to resolve actor: %w", err)
	}

	if !user.Active || user.RoleID == nil {
		return Decision{Access: Denied}, nil
	}

	role, err := s.dir.GetRole(*user.RoleID)
	if errors.Is(err, ErrRoleNotFound) {
		return Decision{Access: Denied}, nil
	}

	if err != nil {
		return Decision{}, fmt.Errorf("failed to resolve role: %w", err)
	}

	switch Grant(role, capability) {
	case models.ScopeAll:
		return Decision{Access: AllowedAll}, nil
	case models.ScopeSubordinates:
		reports, err := s.dir.GetDirectReportIDs(actorID)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to resolve direct reports: %w", err)
		}

		// The actor always sees their own records too.
		visible := make([]uint64, 0, len(reports)+1)
		visible = append(visible, actorID)
		visible = append(visible, reports...)

		return Decision{Access: AllowedSubordinates, VisibleUserIDs: visible}, nil
	default:
		return Decision{Access: Denied}, nil
	}
}

// EvaluateAny combines the decisions for several capabilities with logical OR.
// Any unrestricted grant wins outright; otherwise the visible sets of all
// subordinate-scoped grants are unioned; only if every capability denies is
// the combined decision Denied.
func (s *Service) EvaluateAny(actorID uint64, capabilities ...Capability) (Decision, error) {
	var (
		combined Decision
		seen     map[uint64]struct{}
	)

	for _, capability := range capabilities {
		decision, err := s.Evaluate(actorID, capability)
		if err != nil {
			return Decision{}, err
		}

		switch decision.Access {
		case AllowedAll:
			return decision, nil
		case AllowedSubordinates:
			if seen == nil {
				seen = make(map[uint64]struct{})
			}

			combined.Access = AllowedSubordinates

			for _, id := range decision.VisibleUserIDs {
				if _, ok := seen[id]; ok {
					continue
				}

				seen[id] = struct{}{}
				combined.VisibleUserIDs = append(combined.VisibleUserIDs, id)
			}
		case Denied:
			// keep looking
		}
	}

	return combined, nil
}

// Package authz decides which intents a caller holds on a resource.
//
// Evaluation is a pure function of the caller's identity set and the
// resource's permission model. There is no group resolution here: the
// token already carries every identity that should be matched.
package authz

import (
	"slices"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

// IntentSet is the set of intents a caller holds on one resource.
type IntentSet map[domain.Intent]struct{}

// NewIntentSet builds a set from the given intents.
func NewIntentSet(intents ...domain.Intent) IntentSet {
	s := make(IntentSet, len(intents))
	for _, i := range intents {
		s[i] = struct{}{}
	}
	return s
}

// Has reports whether the set contains intent.
func (s IntentSet) Has(intent domain.Intent) bool {
	_, ok := s[intent]
	return ok
}

// HasAny reports whether the set contains at least one of intents.
func (s IntentSet) HasAny(intents ...domain.Intent) bool {
	for _, i := range intents {
		if s.Has(i) {
			return true
		}
	}
	return false
}

// Sorted returns the intents in lexical order.
func (s IntentSet) Sorted() []domain.Intent {
	out := make([]domain.Intent, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// AllowedIntents returns every intent for which the token's identity set
// intersects the model's subject list. Root holds the whole intent universe
// plus any other intent the model names.
func AllowedIntents(token domain.AuthToken, model domain.PermissionModel) IntentSet {
	if token.IsRoot() {
		all := NewIntentSet(domain.AllIntents()...)
		for intent := range model {
			all[intent] = struct{}{}
		}
		return all
	}

	ids := token.Identities()
	allowed := make(IntentSet)
	for intent, subjects := range model {
		if intersects(ids, subjects) {
			allowed[intent] = struct{}{}
		}
	}
	return allowed
}

// IsAllowed reports whether token may perform intent under model. An intent
// missing from the model is denied for everyone but root.
func IsAllowed(token domain.AuthToken, intent domain.Intent, model domain.PermissionModel) bool {
	if token.IsRoot() {
		return true
	}
	subjects, ok := model[intent]
	if !ok {
		return false
	}
	return intersects(token.Identities(), subjects)
}

// RequireAllowed returns a *domain.NotAuthorizedError when IsAllowed is false.
func RequireAllowed(token domain.AuthToken, intent domain.Intent, model domain.PermissionModel) error {
	if IsAllowed(token, intent, model) {
		return nil
	}
	return notAuthorized(token, intent)
}

// RequireAny succeeds when token holds at least one of intents. The denial
// names the first intent.
func RequireAny(token domain.AuthToken, model domain.PermissionModel, intents ...domain.Intent) error {
	for _, intent := range intents {
		if IsAllowed(token, intent, model) {
			return nil
		}
	}
	if len(intents) == 0 {
		return notAuthorized(token, "")
	}
	return notAuthorized(token, intents[0])
}

func notAuthorized(token domain.AuthToken, intent domain.Intent) *domain.NotAuthorizedError {
	return &domain.NotAuthorizedError{
		UserID:         token.UserID,
		OrganizationID: token.OrganizationID,
		Intent:         intent,
	}
}

func intersects(ids, subjects []string) bool {
	for _, id := range ids {
		if slices.Contains(subjects, id) {
			return true
		}
	}
	return false
}

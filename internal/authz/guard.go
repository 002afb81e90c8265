package authz

import (
	"github.com/rs/zerolog/log"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/obs"
)

// Check is RequireAllowed plus a debug log line and a decision counter.
// Services call it at admission points; the pure evaluator stays free of
// side effects so redaction can reuse it.
func Check(token domain.AuthToken, intent domain.Intent, model domain.PermissionModel) error {
	err := RequireAllowed(token, intent, model)
	record(token, intent, err == nil)
	return err
}

// CheckAny is RequireAny with the same logging as Check.
func CheckAny(token domain.AuthToken, model domain.PermissionModel, intents ...domain.Intent) error {
	err := RequireAny(token, model, intents...)
	var intent domain.Intent
	if len(intents) > 0 {
		intent = intents[0]
	}
	record(token, intent, err == nil)
	return err
}

func record(token domain.AuthToken, intent domain.Intent, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	obs.AuthzDecisions.WithLabelValues(string(intent), result).Inc()
	log.Debug().
		Str("user_id", token.UserID).
		Str("organization", token.OrganizationID).
		Str("intent", string(intent)).
		Str("result", result).
		Msg("authz: decision")
}

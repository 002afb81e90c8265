package domain

// RootUserID is the identity that holds every intent on every resource.
const RootUserID = "root"

// AuthToken is an already verified caller identity. Groups holds any group
// ids resolved for the user before the token reaches the evaluator.
type AuthToken struct {
	UserID         string   `json:"userId"`
	OrganizationID string   `json:"organization"`
	Groups         []string `json:"groups,omitempty"`
}

// IsRoot reports whether the token belongs to the root identity.
func (t AuthToken) IsRoot() bool {
	return t.UserID == RootUserID
}

// Identities returns the identity set matched against permission models:
// the user id, the organization id and any resolved groups. Empty ids are
// skipped so an unset organization never matches an empty subject.
func (t AuthToken) Identities() []string {
	ids := make([]string, 0, 2+len(t.Groups))
	if t.UserID != "" {
		ids = append(ids, t.UserID)
	}
	if t.OrganizationID != "" {
		ids = append(ids, t.OrganizationID)
	}
	for _, g := range t.Groups {
		if g != "" {
			ids = append(ids, g)
		}
	}
	return ids
}

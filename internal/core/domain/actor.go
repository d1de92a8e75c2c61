package domain

// Role is a typed capability within a workspace. Role resolution itself is an
// external concern; the engine only ever performs set-intersection checks.
type Role string

const (
	RoleAgencyOwner Role = "agency_owner"
	RoleAgencyAdmin Role = "agency_admin"
	RoleFinance     Role = "finance"
	RoleFreelancer  Role = "freelancer"
	RoleClient      Role = "client"
)

// WalletOperatorRoles may read the treasury overview and operate payouts.
var WalletOperatorRoles = []Role{RoleAgencyOwner, RoleAgencyAdmin, RoleFinance}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID    string `json:"id"`
	Roles []Role `json:"roles"`
}

// HasAnyRole reports whether the actor holds at least one of the required roles.
func (a Actor) HasAnyRole(required ...Role) bool {
	for _, have := range a.Roles {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Package auth is the capability passed into every engine operation.
// Role checks happen once at the operation boundary, never per field.
package auth

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
	RoleInsurer  Role = "insurer"
	RoleOperator Role = "operator"
)

type Capability struct {
	Actor string
	roles map[Role]struct{}
}

func NewCapability(actor string, roles ...Role) Capability {
	m := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		m[r] = struct{}{}
	}
	return Capability{Actor: actor, roles: m}
}

func (c Capability) Has(r Role) bool {
	_, ok := c.roles[r]
	return ok
}

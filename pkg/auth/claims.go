package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims carried by loan-service tokens. SubjectID
// identifies a back-office user for admin tokens and a customer for customer
// portal tokens.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID uuid.UUID `json:"subject_id"`
	Roles     []string  `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

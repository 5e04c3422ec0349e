package domain

// User roles
const (
	RoleAgent         = "agent"          // Real-estate agent, may review applications
	RolePropertyOwner = "property_owner" // Lists properties for rent
	RoleBuyer         = "buyer"          // Browses, applies, wishlists
	RoleAdmin         = "admin"          // Seeded out-of-band, never assignable via register
)

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                    // Primary key
	Username string `gorm:"size:50;unique;not null" json:"username"` // Unique username
	Email    string `gorm:"size:100;unique;not null" json:"email"`   // Unique email
	Password string `gorm:"size:100;not null" json:"-"`              // Hashed password, never serialized
	Role     string `gorm:"size:20;not null" json:"role"`            // One of the role constants above
	// Owned rows; deleting a user removes all three sets (see api.DeleteUserHandler)
	Properties   []Property    `gorm:"foreignKey:ListedBy;constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites    []Wishlist    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// AssignableRole reports whether a role may be chosen at registration or
// account update. Admin is deliberately excluded.
func AssignableRole(role string) bool {
	switch role {
	case RoleAgent, RolePropertyOwner, RoleBuyer:
		return true // Self-service roles
	}
	return false // Anything else (including admin) is rejected
}

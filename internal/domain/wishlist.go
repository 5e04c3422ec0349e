package domain

// Wishlist Model. A (user, property) pairing with no extra attributes;
// duplicate pairs are permitted, re-adding a property is not an error.
type Wishlist struct {
	ID         uint `gorm:"primaryKey" json:"id"`        // Primary key
	UserID     uint `gorm:"not null" json:"user_id"`     // Owning user
	PropertyID uint `gorm:"not null" json:"property_id"` // Saved property
}

package domain

// Property Model
type Property struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                  // Primary key
	Title       string  `gorm:"size:100;not null" json:"title"`        // Listing title
	Description string  `gorm:"type:text;not null" json:"description"` // Free-form description
	Price       float64 `gorm:"not null" json:"price"`                 // Asking price
	Location    string  `gorm:"size:100;not null" json:"location"`     // Human-readable location
	ListedBy    uint    `gorm:"not null" json:"listed_by"`             // Foreign key to the owning User
	// Dependent rows; deleting a property removes both sets (see api.DeletePropertyHandler)
	Applications []Application `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites    []Wishlist    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
}

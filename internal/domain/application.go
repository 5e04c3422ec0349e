package domain

import "time" // Submission timestamp

// Application review statuses
const (
	StatusPending  = "pending"  // Initial status, set at submission
	StatusApproved = "approved" // Terminal, set by agent/admin review
	StatusRejected = "rejected" // Terminal, set by agent/admin review
)

// Application Model
type Application struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                           // Primary key
	UserID        uint      `gorm:"not null" json:"user_id"`                        // Applicant
	PropertyID    uint      `gorm:"not null" json:"property_id"`                    // Property applied for
	Status        string    `gorm:"size:20;not null;default:pending" json:"status"` // Review status
	DateSubmitted time.Time `gorm:"not null;autoCreateTime" json:"date_submitted"`  // Server-assigned at creation
}

// ReviewStatus reports whether status is a value a reviewer may set.
func ReviewStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected // Only the two terminal statuses
}

// CanTransitionTo reports whether the application may move to the given
// status. The only legal transitions are pending to approved and pending to
// rejected; reviewed applications are final.
func (a *Application) CanTransitionTo(status string) bool {
	return a.Status == StatusPending && ReviewStatus(status)
}

package entity

import "time"

type Excursion struct {
	ID             int64     `db:"id"`
	OrganizationID int64     `db:"organization_id"`
	GuideID        *int64    `db:"guide_id"`
	ManagerID      *int64    `db:"manager_id"`
	Title          *string   `db:"title"`
	City           *string   `db:"city"`
	CreatedAt      time.Time `db:"created_at"`
}

// DisplayTitle is used in notification texts.
func (e *Excursion) DisplayTitle() string {
	if e.Title == nil || *e.Title == "" {
		return "Excursion"
	}
	return *e.Title
}

func (e *Excursion) IsGuidedBy(userID int64) bool {
	return e.GuideID != nil && *e.GuideID == userID
}

func (e *Excursion) IsManagedBy(userID int64) bool {
	return e.ManagerID != nil && *e.ManagerID == userID
}

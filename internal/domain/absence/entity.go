package absence

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Category of an absence. Only some categories map to a leave account;
// the ledger skips the rest.
type Category string

const (
	CategoryRTT      Category = "RTT"
	CategoryVacation Category = "VACATION"
	CategorySick     Category = "SICK"
	CategoryPersonal Category = "PERSONAL"
	CategoryOther    Category = "OTHER"
)

var CategoryValues = []string{
	string(CategoryRTT),
	string(CategoryVacation),
	string(CategorySick),
	string(CategoryPersonal),
	string(CategoryOther),
}

type DayPeriod string

const (
	DayPeriodAM      DayPeriod = "AM"
	DayPeriodPM      DayPeriod = "PM"
	DayPeriodFullDay DayPeriod = "FULL_DAY"
)

type Absence struct {
	ID                    string
	UserID                string
	StartDate             time.Time
	EndDate               time.Time
	Category              Category
	Status                Status
	ApprovedBy            *string
	ApprovedAt            *time.Time
	Reason                *string
	SupportingDocumentURL *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsPending reports whether the absence still awaits a decision.
func (a *Absence) IsPending() bool {
	return a.Status == StatusPending
}

// Day is one calendar day inside an absence's range. Days are owned by
// their absence and regenerated wholesale when the range or period map
// changes.
type Day struct {
	AbsenceID string
	Date      time.Time
	Period    DayPeriod
	StartTime *time.Time
	EndTime   *time.Time
}

package documents

import "time"

// Status is the lifecycle state of a document. Transitions are monotonic:
// a document never moves backwards.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusSigned   Status = "Signed"
	StatusArchived Status = "Archived"
)

var transitions = map[Status][]Status{
	StatusDraft:  {StatusSent, StatusArchived},
	StatusSent:   {StatusSigned, StatusArchived},
	StatusSigned: {StatusArchived},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusSigned, StatusArchived:
		return true
	}
	return false
}

const (
	TypeOfferLetter      = "Offer Letter"
	TypeSalaryLetter     = "Salary Letter"
	TypeOnboardingLetter = "Onboarding Letter"
	TypeNDA              = "NDA"
	TypeOther            = "Other"
)

// ValidType reports whether t is an accepted document type.
func ValidType(t string) bool {
	switch t {
	case TypeOfferLetter, TypeSalaryLetter, TypeOnboardingLetter, TypeNDA, TypeOther:
		return true
	}
	return false
}

type Document struct {
	ID           string     `json:"id"`
	OwnerEmail   string     `json:"ownerEmail"`
	DocumentType string     `json:"documentType"`
	SubjectName  string     `json:"employeeName"`
	SubjectEmail string     `json:"employeeEmail"`
	StorageURL   string     `json:"storageUrl"`
	StoredName   string     `json:"storedName"`
	Title        string     `json:"documentTitle"`
	Description  string     `json:"documentDescription,omitempty"`
	Status       Status     `json:"status"`
	Tags         []string   `json:"tags,omitempty"`
	IsActive     bool       `json:"isActive"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
	SignedAt     *time.Time `json:"signedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

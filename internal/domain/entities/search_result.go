package entities

// SearchResultType tags which collection a search hit came from
type SearchResultType string

const (
	SearchResultClinic       SearchResultType = "clinic"
	SearchResultAppointment  SearchResultType = "appointment"
	SearchResultPrescription SearchResultType = "prescription"
)

// SearchResult is one hit of the global search
type SearchResult struct {
	Type         SearchResultType `json:"type"`
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Subtitle     string           `json:"subtitle,omitempty"`
	Clinic       *Clinic          `json:"clinic,omitempty"`
	Appointment  *Appointment     `json:"appointment,omitempty"`
	Prescription *Prescription    `json:"prescription,omitempty"`
}

// SearchResults groups hits by type
type SearchResults struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

package entity

// DraftPair is one candidate email produced by the completion service.
type DraftPair struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftFields carries the primary and follow-up drafts of a record.
type DraftFields struct {
	PrimarySubject  string `json:"mail_subject"`
	PrimaryBody     string `json:"main_email"`
	FollowupSubject string `json:"second_subject"`
	FollowupBody    string `json:"second_email"`
}

// EnrichedRecord is the unit written to an output sink.
type EnrichedRecord struct {
	Email     string `json:"email"`
	Website   string `json:"website"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	DraftFields
}

// CSVHeader is the fixed column order of every output file.
var CSVHeader = []string{
	"EMAIL", "Website", "First Name", "Last Name", "Title", "Company",
	"Mail Subject", "Main Email", "Second Subject", "Second Email",
}

// NewEnrichedRecord flattens a profile and its drafts into an output record.
func NewEnrichedRecord(profile ContactProfile, drafts DraftFields) EnrichedRecord {
	return EnrichedRecord{
		Email:       Value(profile.Person.Email),
		Website:     Value(profile.Organization.Website),
		FirstName:   Value(profile.Person.FirstName),
		LastName:    Value(profile.Person.LastName),
		Title:       Value(profile.Person.Title),
		Company:     Value(profile.Organization.Name),
		DraftFields: drafts,
	}
}

// Columns returns the record values in CSVHeader order.
func (r EnrichedRecord) Columns() []string {
	return []string{
		r.Email, r.Website, r.FirstName, r.LastName, r.Title, r.Company,
		r.PrimarySubject, r.PrimaryBody, r.FollowupSubject, r.FollowupBody,
	}
}

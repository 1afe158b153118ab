package entity

// Person holds the individual-level fields of an enriched contact.
type Person struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Title     *string `json:"title,omitempty"`
	Headline  *string `json:"headline,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Organization holds the employer fields of an enriched contact.
type Organization struct {
	Name                   *string  `json:"name,omitempty"`
	City                   *string  `json:"city,omitempty"`
	Website                *string  `json:"website,omitempty"`
	Phone                  *string  `json:"phone,omitempty"`
	EstimatedEmployeeCount *string  `json:"estimated_num_employees,omitempty"`
	TechnologyNames        []string `json:"technology_names,omitempty"`
	Industries             []string `json:"industries,omitempty"`
	Keywords               []string `json:"keywords,omitempty"`
}

// ContactProfile is the normalized subject of enrichment. Every field is optional.
type ContactProfile struct {
	Person       Person       `json:"person"`
	Organization Organization `json:"organization"`
}

// DisplayName joins first and last name, skipping whichever is absent.
func (p ContactProfile) DisplayName() string {
	first, last := Value(p.Person.FirstName), Value(p.Person.LastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// SenderIdentity describes the operator the drafts are written on behalf of.
type SenderIdentity struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Contact  string `json:"contact"`
}

// Value dereferences an optional string, yielding "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

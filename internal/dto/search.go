package dto

import "strings"

// PeopleSearchFilter is the filter document sent to the people-search service.
// Empty fields are omitted from the outgoing request.
type PeopleSearchFilter struct {
	PersonTitles                  []string `json:"person_titles,omitempty" yaml:"person_titles"`
	PersonLocations               []string `json:"person_locations,omitempty" yaml:"person_locations"`
	PersonSeniorities             []string `json:"person_seniorities,omitempty" yaml:"person_seniorities"`
	OrganizationLocations         []string `json:"organization_locations,omitempty" yaml:"organization_locations"`
	OrganizationDomains           []string `json:"q_organization_domains_list,omitempty" yaml:"q_organization_domains_list"`
	ContactEmailStatus            []string `json:"contact_email_status,omitempty" yaml:"contact_email_status"`
	OrganizationIDs               []string `json:"organization_ids,omitempty" yaml:"organization_ids"`
	OrganizationNumEmployeesRange string   `json:"-" yaml:"organization_num_employees_ranges"`
	Keywords                      string   `json:"q_keywords,omitempty" yaml:"q_keywords"`
	Page                          int      `json:"page,omitempty" yaml:"page"`
	PerPage                       int      `json:"per_page,omitempty" yaml:"per_page"`
}

// PeopleSearchRequest binds the query string of the interactive search endpoint.
type PeopleSearchRequest struct {
	PersonTitles                  string `query:"person_titles"`
	PersonLocations               string `query:"person_locations"`
	PersonSeniorities             string `query:"person_seniorities"`
	OrganizationLocations         string `query:"organization_locations"`
	OrganizationDomains           string `query:"q_organization_domains_list"`
	ContactEmailStatus            string `query:"contact_email_status"`
	OrganizationIDs               string `query:"organization_ids"`
	OrganizationNumEmployeesRange string `query:"organization_num_employees_ranges"`
	Keywords                      string `query:"q_keywords"`
	Page                          int    `query:"page"`
	PerPage                       int    `query:"per_page"`
	Instructions                  string `query:"deepseek_prompt"`
	SenderName                    string `query:"your_name"`
	SenderPosition                string `query:"your_position"`
	SenderContact                 string `query:"your_contact"`
}

// Filter converts comma-separated query values into a search filter.
func (r PeopleSearchRequest) Filter() PeopleSearchFilter {
	page, perPage := r.Page, r.PerPage
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	return PeopleSearchFilter{
		PersonTitles:                  SplitList(r.PersonTitles),
		PersonLocations:               SplitList(r.PersonLocations),
		PersonSeniorities:             SplitList(r.PersonSeniorities),
		OrganizationLocations:         SplitList(r.OrganizationLocations),
		OrganizationDomains:           SplitList(r.OrganizationDomains),
		ContactEmailStatus:            SplitList(r.ContactEmailStatus),
		OrganizationIDs:               SplitList(r.OrganizationIDs),
		OrganizationNumEmployeesRange: strings.TrimSpace(r.OrganizationNumEmployeesRange),
		Keywords:                      strings.TrimSpace(r.Keywords),
		Page:                          page,
		PerPage:                       perPage,
	}
}

// SplitList splits a comma-separated value, trimming entries and dropping
// empty ones. A blank value yields nil.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

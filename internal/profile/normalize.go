package profile

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/outreach-drafter/internal/entity"
)

const (
	defaultPhoneRegion = "US"
	listSeparator      = ", "
)

// Column names of an externally exported contacts CSV.
const (
	ColumnFirstName      = "First Name"
	ColumnLastName       = "Last Name"
	ColumnTitle          = "Title"
	ColumnCompany        = "Company"
	ColumnEmail          = "Email"
	ColumnSeniority      = "Seniority"
	ColumnDepartments    = "Departments"
	ColumnEmployees      = "# Employees"
	ColumnIndustry       = "Industry"
	ColumnKeywords       = "Keywords"
	ColumnCity           = "City"
	ColumnState          = "State"
	ColumnCountry        = "Country"
	ColumnCompanyCity    = "Company City"
	ColumnCompanyState   = "Company State"
	ColumnCompanyCountry = "Company Country"
	ColumnTechnologies   = "Technologies"
)

// RequiredColumns lists the header cells an input CSV must carry.
var RequiredColumns = []string{
	ColumnFirstName, ColumnLastName, ColumnTitle, ColumnCompany, ColumnEmail, ColumnSeniority,
	ColumnDepartments, ColumnEmployees, ColumnIndustry, ColumnKeywords, ColumnCity, ColumnState,
	ColumnCountry, ColumnCompanyCity, ColumnCompanyState, ColumnCompanyCountry, ColumnTechnologies,
}

// Normalizer maps raw people-search documents and CSV rows onto entity.ContactProfile.
// It never fails: missing inputs become missing outputs.
type Normalizer struct {
	region string
}

// NewNormalizer builds a normalizer that parses phone numbers relative to region.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &Normalizer{region: region}
}

// FromPeopleMatch normalizes a people-match response document ({"person": {...}}).
func (n *Normalizer) FromPeopleMatch(raw map[string]any) entity.ContactProfile {
	person := object(raw, "person")
	org := object(person, "organization")

	return entity.ContactProfile{
		Person: entity.Person{
			FirstName: text(person, "first_name"),
			LastName:  text(person, "last_name"),
			Title:     text(person, "title"),
			Headline:  text(person, "headline"),
			Email:     text(person, "email"),
		},
		Organization: entity.Organization{
			Name:                   text(org, "name"),
			City:                   text(org, "city"),
			Website:                text(org, "website_url"),
			Phone:                  n.phone(org),
			EstimatedEmployeeCount: text(org, "estimated_num_employees"),
			TechnologyNames:        list(org, "technology_names"),
			Industries:             list(org, "industries"),
			Keywords:               list(org, "keywords"),
		},
	}
}

// FromCSVRow normalizes one row of an exported contacts CSV keyed by header name.
func (n *Normalizer) FromCSVRow(row map[string]string) entity.ContactProfile {
	return entity.ContactProfile{
		Person: entity.Person{
			FirstName: cell(row, ColumnFirstName),
			LastName:  cell(row, ColumnLastName),
			Title:     cell(row, ColumnTitle),
			Email:     cell(row, ColumnEmail),
		},
		Organization: entity.Organization{
			Name:                   cell(row, ColumnCompany),
			City:                   cell(row, ColumnCompanyCity),
			EstimatedEmployeeCount: cell(row, ColumnEmployees),
			TechnologyNames:        splitList(row[ColumnTechnologies]),
			Industries:             singleItem(row[ColumnIndustry]),
			Keywords:               splitList(row[ColumnKeywords]),
		},
	}
}

func (n *Normalizer) phone(org map[string]any) *string {
	raw := text(org, "phone")
	if raw == nil {
		raw = text(object(org, "primary_phone"), "number")
	}
	if raw == nil {
		return nil
	}
	if normalized := normalizePhone(*raw, n.region); normalized != "" {
		return &normalized
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func object(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	nested, _ := m[key].(map[string]any)
	return nested
}

func text(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	var s string
	switch v := m[key].(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		s = v.String()
	default:
		return nil
	}
	return &s
}

func list(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func cell(row map[string]string, column string) *string {
	value := strings.TrimSpace(row[column])
	if value == "" {
		return nil
	}
	return &value
}

// singleItem keeps a cell whole; industry names such as
// "Health, Wellness & Fitness" contain the list separator.
func singleItem(value string) []string {
	if value == "" {
		return []string{}
	}
	return []string{value}
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, listSeparator)
}

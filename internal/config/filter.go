package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/octobees/outreach-drafter/internal/dto"
)

// LoadSearchFilter reads a YAML filter document and overlays it on base.
// Keys absent from the document keep the base value.
func LoadSearchFilter(path string, base dto.PeopleSearchFilter) (dto.PeopleSearchFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read filter file: %w", err)
	}

	filter := base
	if err := yaml.Unmarshal(data, &filter); err != nil {
		return base, fmt.Errorf("parse filter file %s: %w", path, err)
	}
	if filter.Page <= 0 || filter.PerPage <= 0 {
		return base, fmt.Errorf("filter file %s: page and per_page must be positive", path)
	}
	return filter, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/outreach-drafter/internal/dto"
	"github.com/octobees/outreach-drafter/internal/entity"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// ApolloConfig points at the people-search service.
type ApolloConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit RateLimitConfig
	Timeout   time.Duration
}

// CompletionConfig selects and configures the completion backend.
type CompletionConfig struct {
	Provider        string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string
	GeminiAPIKey    string
	GeminiModel     string
	Timeout         time.Duration
}

// DraftConfig holds prompt material read once at startup.
type DraftConfig struct {
	Preamble        string
	CompanyOverview string
	Sender          entity.SenderIdentity
	PhoneRegion     string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port                 string
	JWTSecret            string
	TokenTTL             time.Duration
	RateLimitSearch      RateLimitConfig
	OperatorEmail        string
	OperatorPasswordHash string
	DatabaseURL          string
	CSVFilename          string
	LogLevel             string
	LogFile              string
	Apollo               ApolloConfig
	Completion           CompletionConfig
	Draft                DraftConfig
	SearchFilter         dto.PeopleSearchFilter
}

const (
	defaultCSVFilename     = "result.csv"
	defaultOverviewFile    = "company_overview.txt"
	defaultApolloBaseURL   = "https://api.apollo.io/api/v1"
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
)

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "1h"), time.Hour),
		OperatorEmail:        strings.TrimSpace(os.Getenv("OPERATOR_EMAIL")),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		CSVFilename:          getEnv("CSV_FILENAME", defaultCSVFilename),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
		Apollo: ApolloConfig{
			APIKey:  os.Getenv("APOLLO_API_KEY"),
			BaseURL: strings.TrimRight(getEnv("APOLLO_BASE_URL", defaultApolloBaseURL), "/"),
			Timeout: parseDuration(getEnv("APOLLO_TIMEOUT", "30s"), 30*time.Second),
		},
		Completion: CompletionConfig{
			Provider:        strings.ToLower(getEnv("COMPLETION_PROVIDER", "deepseek")),
			DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
			DeepSeekBaseURL: getEnv("DEEPSEEK_BASE_URL", defaultDeepSeekBaseURL),
			DeepSeekModel:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:         parseDuration(getEnv("COMPLETION_TIMEOUT", "60s"), time.Minute),
		},
		Draft: DraftConfig{
			Preamble: os.Getenv("DRAFT_PROMPT"),
			Sender: entity.SenderIdentity{
				Name:     os.Getenv("SENDER_NAME"),
				Position: os.Getenv("SENDER_POSITION"),
				Contact:  os.Getenv("SENDER_CONTACT"),
			},
			PhoneRegion: getEnv("PHONE_REGION", "US"),
		},
	}

	switch cfg.Completion.Provider {
	case "deepseek", "gemini":
	default:
		return nil, fmt.Errorf("invalid COMPLETION_PROVIDER value: %q", cfg.Completion.Provider)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	apolloRL, err := parseRateLimit(getEnv("APOLLO_RATE_LIMIT", "60/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid APOLLO_RATE_LIMIT value: %w", err)
	}
	cfg.Apollo.RateLimit = apolloRL

	overview, err := readOverview()
	if err != nil {
		return nil, err
	}
	cfg.Draft.CompanyOverview = overview

	filter, err := searchFilterFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.SearchFilter = filter

	return cfg, nil
}

// readOverview loads the company overview text. A missing default file yields
// an empty overview; an explicitly configured file must be readable.
func readOverview() (string, error) {
	path, explicit := os.LookupEnv("COMPANY_OVERVIEW_FILE")
	if !explicit || strings.TrimSpace(path) == "" {
		path, explicit = defaultOverviewFile, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read COMPANY_OVERVIEW_FILE: %w", err)
	}
	return string(data), nil
}

func searchFilterFromEnv() (dto.PeopleSearchFilter, error) {
	page, err := parsePositiveInt("PAGE", 1)
	if err != nil {
		return dto.PeopleSearchFilter{}, err
	}
	perPage, err := parsePositiveInt("PER_PAGE", 10)
	if err != nil {
		return dto.PeopleSearchFilter{}, err
	}
	return dto.PeopleSearchFilter{
		PersonTitles:                  dto.SplitList(os.Getenv("PERSON_TITLES")),
		PersonLocations:               dto.SplitList(os.Getenv("PERSON_LOCATIONS")),
		PersonSeniorities:             dto.SplitList(os.Getenv("PERSON_SENIORITIES")),
		OrganizationLocations:         dto.SplitList(os.Getenv("ORGANIZATION_LOCATIONS")),
		OrganizationDomains:           dto.SplitList(os.Getenv("Q_ORGANIZATION_DOMAINS_LIST")),
		ContactEmailStatus:            dto.SplitList(os.Getenv("CONTACT_EMAIL_STATUS")),
		OrganizationIDs:               dto.SplitList(os.Getenv("ORGANIZATION_IDS")),
		OrganizationNumEmployeesRange: os.Getenv("ORGANIZATION_NUM_EMPLOYEES_RANGES"),
		Keywords:                      os.Getenv("Q_KEYWORDS"),
		Page:                          page,
		PerPage:                       perPage,
	}, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return n, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

package reconcile

// Config holds tuning for the TCG catalog pipeline.
type Config struct {
	// Enabled turns on the TCG catalog source. When false only the legacy source is used.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Domain is the single category the catalog currently models.
	Domain string `mapstructure:"domain" default:"pokemon"`
	// MaxSets caps how many sets are expanded into cards per query.
	MaxSets int `mapstructure:"max_sets" default:"24"`
	// MaxCardsPerSet sizes the single cards page fetched per set.
	MaxCardsPerSet int `mapstructure:"max_cards_per_set" default:"120"`
	// Concurrency is the number of concurrent per-set card fetches.
	Concurrency int `mapstructure:"set_fetch_concurrency" default:"4"`
	// SetsPerPage is the page size used when listing sets.
	SetsPerPage int `mapstructure:"sets_per_page" default:"100"`
}

const (
	defaultDomain      = "pokemon"
	defaultSetsPerPage = 100
	minCardsPerPage    = 20
	maxCardsPerPage    = 200
)

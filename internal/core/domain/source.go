package domain

import "time"

// Source represents a configured record source.
// Each source produces records via a connector and feeds one vector collection.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the connector type (e.g. "moel_iqrs").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Collection is the vector collection the source's records are indexed into.
	Collection string

	// Config contains connector-specific configuration.
	Config map[string]string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// CollectionName returns the collection the source indexes into,
// defaulting to the source ID.
func (s *Source) CollectionName() string {
	if s.Collection != "" {
		return s.Collection
	}
	return s.ID
}

// ConfigValue returns a config value or def when unset.
func (s *Source) ConfigValue(key, def string) string {
	if v, ok := s.Config[key]; ok && v != "" {
		return v
	}
	return def
}

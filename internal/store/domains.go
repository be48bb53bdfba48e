package store

import "finbot/internal/core"

// Typed accessors over the generic Load/Save pair. Each returns the full
// user-keyed mapping for its domain; a user id missing from the mapping
// means an empty collection.

func (s *Store) LoadLedger(d Domain) (map[string][]core.Entry, error) {
	return Load[[]core.Entry](s, d)
}

func (s *Store) SaveLedger(d Domain, data map[string][]core.Entry) error {
	return Save(s, d, data)
}

func (s *Store) LoadRules(d Domain) (map[string][]core.Rule, error) {
	return Load[[]core.Rule](s, d)
}

func (s *Store) SaveRules(d Domain, data map[string][]core.Rule) error {
	return Save(s, d, data)
}

func (s *Store) LoadCategories(d Domain) (map[string][]string, error) {
	return Load[[]string](s, d)
}

func (s *Store) SaveCategories(d Domain, data map[string][]string) error {
	return Save(s, d, data)
}

func (s *Store) LoadSettings() (map[string]core.Settings, error) {
	return Load[core.Settings](s, DomainSettings)
}

func (s *Store) SaveSettings(data map[string]core.Settings) error {
	return Save(s, DomainSettings, data)
}

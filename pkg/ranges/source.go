package ranges

// Source supplies the raw registrant-range rule data for a Table.
// Implementations load from the embedded RangeMessage, an XML file on
// disk, or a SQLite/Postgres cache.
type Source interface {
	// LoadPrefixRules returns, per GS1 product code ("978", "979"), the
	// ordered rules that decide how many digits form the group code.
	LoadPrefixRules() (map[string][]Rule, error)

	// LoadGroupRules returns, per "<product>-<group>" key (e.g. "978-0"),
	// the agency name and the ordered rules that decide how many digits
	// form the registrant code.
	LoadGroupRules() (map[string]Group, error)
}

// StaticSource is a Source backed by literal rule maps. Handy for tests
// and for seeding a database source.
type StaticSource struct {
	Prefix map[string][]Rule
	Groups map[string]Group
}

func (s *StaticSource) LoadPrefixRules() (map[string][]Rule, error) {
	return s.Prefix, nil
}

func (s *StaticSource) LoadGroupRules() (map[string]Group, error) {
	return s.Groups, nil
}

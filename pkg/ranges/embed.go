package ranges

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"
)

// rangeMessage is a trimmed copy of the ISBN International RangeMessage
// covering the major registration groups. Deployments that need the
// complete current dataset should point an XMLSource (or a database
// source seeded from one) at a freshly downloaded file.
//
//go:embed rangemessage.xml
var rangeMessage []byte

// BundledSource returns a Source reading the embedded RangeMessage.
// Useful for seeding database sources.
func BundledSource() Source {
	return &bundledSource{}
}

type bundledSource struct {
	once   sync.Once
	err    error
	prefix map[string][]Rule
	groups map[string]Group
}

func (s *bundledSource) load() {
	s.prefix, s.groups, s.err = ParseRangeMessage(bytes.NewReader(rangeMessage))
	if s.err != nil {
		s.err = fmt.Errorf("bundled range message is corrupt: %w", s.err)
	}
}

func (s *bundledSource) LoadPrefixRules() (map[string][]Rule, error) {
	s.once.Do(s.load)
	return s.prefix, s.err
}

func (s *bundledSource) LoadGroupRules() (map[string]Group, error) {
	s.once.Do(s.load)
	return s.groups, s.err
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the process-wide table built from the bundled
// RangeMessage. The build happens exactly once; every caller afterwards
// shares the same read-only table.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = New(BundledSource())
	})
	return defaultTable, defaultErr
}

package redirects

import (
	"sort"

	"go.uber.org/zap"
)

// Table is an immutable lookup of redirect rules keyed by exact source path.
// It is safe for concurrent use once constructed.
type Table struct {
	theme     Theme
	rules     map[string]Rule
	overrides int
	logger    *zap.Logger
}

// NewTable installs the theme's base rules followed by the external rules.
// A source present in both lists keeps the external rule.
func NewTable(theme Theme, external []Rule, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := ThemeRules(theme)
	all := make([]Rule, 0, len(base)+len(external))
	all = append(all, base...)
	all = append(all, external...)

	t := &Table{
		theme:  theme,
		rules:  make(map[string]Rule, len(all)),
		logger: logger,
	}
	for _, rule := range all {
		if prev, ok := t.rules[rule.Source]; ok {
			t.overrides++
			logger.Debug("redirect rule overridden",
				zap.String("source", rule.Source),
				zap.String("previous_destination", prev.Destination),
				zap.String("destination", rule.Destination),
			)
		}
		t.rules[rule.Source] = rule
	}

	logger.Info("redirect table built",
		zap.String("theme", string(theme)),
		zap.Int("rules", len(t.rules)),
		zap.Int("overridden", t.overrides),
	)
	return t
}

// Build parses the theme selector, loads the named external resource and
// constructs the table. An unknown theme falls back to DefaultTheme; a
// resource that cannot be loaded is returned as *ConfigurationError.
func Build(rawTheme, resource string, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	theme, ok := ParseTheme(rawTheme)
	if !ok {
		logger.Warn("unknown theme, falling back to default",
			zap.String("theme", rawTheme),
			zap.String("default", string(DefaultTheme)),
		)
	}

	external, err := LoadResource(resource)
	if err != nil {
		return nil, err
	}

	return NewTable(theme, external, logger), nil
}

// Resolve returns the rule whose source equals path exactly.
func (t *Table) Resolve(path string) (Rule, bool) {
	rule, ok := t.rules[path]
	if ok {
		t.logger.Info("redirect matched",
			zap.String("source", rule.Source),
			zap.String("destination", rule.Destination),
			zap.Bool("permanent", rule.Permanent),
		)
	}
	return rule, ok
}

// Theme reports the theme whose base list the table was built from.
func (t *Table) Theme() Theme {
	return t.theme
}

// Len returns the number of installed rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Overrides returns how many inserted rules replaced an earlier rule with the same source.
func (t *Table) Overrides() int {
	return t.overrides
}

// Rules returns a copy of the installed rules sorted by source.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, rule := range t.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Source < out[j].Source
	})
	return out
}

package redirects

import "strings"

// Theme identifies the site variant a deployment serves.
type Theme string

const (
	// ThemeCPR is the Climate Policy Radar variant and the default theme.
	ThemeCPR Theme = "cpr"
	// ThemeCCLW is the Climate Change Laws of the World variant.
	ThemeCCLW Theme = "cclw"

	DefaultTheme = ThemeCPR
)

var themeRules = map[Theme][]Rule{
	ThemeCPR: {
		{Source: "/about", Destination: "/", Permanent: true},
		{Source: "/account", Destination: "/", Permanent: true},
		{Source: "/users/login", Destination: "/", Permanent: true},
		{Source: "/methodology", Destination: "/faq", Permanent: true},
		{Source: "/privacy", Destination: "https://climatepolicyradar.org/privacy-policy", Permanent: false},
	},
	ThemeCCLW: {
		{Source: "/about", Destination: "/", Permanent: true},
		{Source: "/account", Destination: "/", Permanent: true},
		{Source: "/users/login", Destination: "/", Permanent: true},
		{Source: "/litigation", Destination: "https://climatecasechart.com/", Permanent: false},
		{Source: "/climate-laws", Destination: "/search", Permanent: true},
		{Source: "/legislation", Destination: "/search", Permanent: true},
	},
}

// ParseTheme maps a configured theme identifier onto a known theme. Unknown
// identifiers resolve to DefaultTheme and report false.
func ParseTheme(raw string) (Theme, bool) {
	theme := Theme(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := themeRules[theme]; ok {
		return theme, true
	}
	return DefaultTheme, false
}

// ThemeRules returns a copy of the theme's base redirect list.
func ThemeRules(theme Theme) []Rule {
	rules, ok := themeRules[theme]
	if !ok {
		rules = themeRules[DefaultTheme]
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

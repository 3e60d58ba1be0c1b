package nlu

import (
	"regexp"
	"strings"

	"github.com/doeshing/gng-assistant/internal/domain"
)

// Alias rewrites a commonly misheard phrase to its canonical form.
type Alias struct {
	Heard     string
	Canonical string
}

// AppEntry maps a spoken name to a launch target.
type AppEntry struct {
	Name   string
	Target domain.AppTarget
}

// SiteEntry maps a spoken name to a URL.
type SiteEntry struct {
	Name string
	URL  string
}

// Tables are the ordered lookup tables of the rule-based parser. Order is
// significant: the first match in each table wins.
type Tables struct {
	Aliases []Alias
	Apps    []AppEntry
	Sites   []SiteEntry
}

// DefaultTables returns the built-in vocabulary.
func DefaultTables() Tables {
	return Tables{
		Aliases: []Alias{
			{Heard: "mic store", Canonical: "microsoft store"},
			{Heard: "microsft store", Canonical: "microsoft store"},
		},
		Apps: []AppEntry{
			{Name: "microsoft store", Target: domain.ProtocolTarget("ms-windows-store://home")},
			{Name: "microsoft", Target: domain.ProtocolTarget("ms-windows-store://home")},
			{Name: "xbox", Target: domain.ProtocolTarget("xbox:")},
			{Name: "spotify", Target: domain.NamedApp("spotify")},
		},
		Sites: []SiteEntry{
			{Name: "github", URL: "https://github.com"},
			{Name: "linkedin", URL: "https://www.linkedin.com"},
			{Name: "xbox", URL: "https://www.xbox.com"},
			{Name: "steam", URL: "https://store.steampowered.com"},
		},
	}
}

var (
	browserPattern = regexp.MustCompile(`\b(edge|browser)\b`)
	chromePattern  = regexp.MustCompile(`\bchrome\b`)
)

type rule struct {
	pattern *regexp.Regexp
	result  func() domain.ParseResult
}

// RuleParser is the deterministic fallback. It makes no external calls and
// always returns a result.
type RuleParser struct {
	aliases []Alias
	// openRules are evaluated in order when the command contains "open":
	// apps, then sites, then the browser heuristics.
	openRules []rule
}

// NewRuleParser compiles the tables into an ordered rule list.
func NewRuleParser(tables Tables) *RuleParser {
	p := &RuleParser{aliases: tables.Aliases}
	for _, app := range tables.Apps {
		target := app.Target
		p.openRules = append(p.openRules, rule{
			pattern: wordPattern(app.Name),
			result:  func() domain.ParseResult { return openApp(target) },
		})
	}
	for _, site := range tables.Sites {
		url := site.URL
		p.openRules = append(p.openRules, rule{
			pattern: wordPattern(site.Name),
			result: func() domain.ParseResult {
				return rulesResult(domain.IntentOpenURL, domain.Entities{domain.EntityURL: url})
			},
		})
	}
	p.openRules = append(p.openRules,
		rule{pattern: browserPattern, result: func() domain.ParseResult { return openApp(domain.NamedApp("msedge")) }},
		rule{pattern: chromePattern, result: func() domain.ParseResult { return openApp(domain.NamedApp("chrome")) }},
	)
	return p
}

// Parse resolves text without any model.
func (p *RuleParser) Parse(text string, cfg domain.Config) domain.ParseResult {
	t := p.normalize(text)

	if strings.Contains(t, "open") {
		for _, r := range p.openRules {
			if r.pattern.MatchString(t) {
				return r.result()
			}
		}
	}

	if strings.Contains(t, "what") && strings.Contains(t, "time") {
		return rulesResult(domain.IntentTellTime, domain.Entities{})
	}

	for _, cmd := range cfg.AllowedCommands {
		if strings.TrimSpace(cmd) == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(cmd)) {
			return rulesResult(cmd, domain.Entities{})
		}
	}

	return domain.Unknown()
}

// normalize lower-cases and applies aliases once. When the canonical phrase is
// already present the alias is left alone, so the canonical form wins.
func (p *RuleParser) normalize(text string) string {
	t := strings.ToLower(text)
	for _, a := range p.aliases {
		if strings.Contains(t, a.Heard) && !strings.Contains(t, a.Canonical) {
			t = strings.ReplaceAll(t, a.Heard, a.Canonical)
		}
	}
	return t
}

func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(name)) + `\b`)
}

func openApp(target domain.AppTarget) domain.ParseResult {
	return rulesResult(domain.IntentOpenApp, domain.Entities{domain.EntityApp: target})
}

func rulesResult(intent string, entities domain.Entities) domain.ParseResult {
	return domain.ParseResult{Intent: intent, Entities: entities, Strategy: domain.StrategyRules}
}

package redirects

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildDefaultThemeResolvesAbout(t *testing.T) {
	t.Parallel()

	table, err := Build("", "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	rule, ok := table.Resolve("/about")
	if !ok {
		t.Fatalf("expected /about to resolve")
	}
	want := Rule{Source: "/about", Destination: "/", Permanent: true}
	if diff := cmp.Diff(want, rule); diff != "" {
		t.Fatalf("unexpected rule (-want +got):\n%s", diff)
	}
	if table.Theme() != DefaultTheme {
		t.Fatalf("expected default theme, got %s", table.Theme())
	}
}

func TestNewTableExternalRuleWins(t *testing.T) {
	t.Parallel()

	external := []Rule{
		{Source: "/about", Destination: "/new-about", Permanent: false},
		{Source: "/extra", Destination: "/", Permanent: true},
	}
	table := NewTable(ThemeCPR, external, zaptest.NewLogger(t))

	rule, ok := table.Resolve("/about")
	if !ok {
		t.Fatalf("expected /about to resolve")
	}
	if diff := cmp.Diff(external[0], rule); diff != "" {
		t.Fatalf("expected external rule to win (-want +got):\n%s", diff)
	}
	if table.Overrides() != 1 {
		t.Fatalf("expected 1 override, got %d", table.Overrides())
	}
	if want := len(ThemeRules(ThemeCPR)) + 1; table.Len() != want {
		t.Fatalf("expected %d rules, got %d", want, table.Len())
	}
}

func TestNewTableLaterExternalDuplicateWins(t *testing.T) {
	t.Parallel()

	external := []Rule{
		{Source: "/dup", Destination: "/first"},
		{Source: "/dup", Destination: "/second"},
	}
	table := NewTable(ThemeCCLW, external, nil)

	rule, ok := table.Resolve("/dup")
	if !ok || rule.Destination != "/second" {
		t.Fatalf("expected last inserted rule, got %+v (ok=%v)", rule, ok)
	}
}

func TestResolveEveryInstalledSource(t *testing.T) {
	t.Parallel()

	table := NewTable(ThemeCCLW, []Rule{{Source: "/x", Destination: "/y"}}, nil)
	for _, rule := range table.Rules() {
		got, ok := table.Resolve(rule.Source)
		if !ok {
			t.Fatalf("expected %s to resolve", rule.Source)
		}
		if diff := cmp.Diff(rule, got); diff != "" {
			t.Fatalf("unexpected rule for %s (-want +got):\n%s", rule.Source, diff)
		}
	}
}

func TestResolveMisses(t *testing.T) {
	t.Parallel()

	table := NewTable(ThemeCPR, nil, nil)

	for _, path := range []string{"/no-such-path", "/about/", "/About", "about", "", "/about?x=1"} {
		if rule, ok := table.Resolve(path); ok {
			t.Fatalf("expected %q to miss, got %+v", path, rule)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	table := NewTable(ThemeCPR, nil, nil)
	first, firstOK := table.Resolve("/account")
	for i := 0; i < 10; i++ {
		got, ok := table.Resolve("/account")
		if ok != firstOK || got != first {
			t.Fatalf("resolve changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestResolveConcurrentReaders(t *testing.T) {
	table := NewTable(ThemeCPR, []Rule{{Source: "/about", Destination: "/new-about"}}, nil)

	paths := []string{"/about", "/account", "/missing", "/methodology"}
	want := make(map[string]Rule, len(paths))
	wantOK := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p], wantOK[p] = table.Resolve(p)
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p := paths[(offset+j)%len(paths)]
				got, ok := table.Resolve(p)
				if ok != wantOK[p] || got != want[p] {
					t.Errorf("concurrent resolve of %s returned %+v (ok=%v)", p, got, ok)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestNewTableLogsInstalledCount(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	table := NewTable(ThemeCPR, []Rule{{Source: "/extra", Destination: "/"}}, zap.New(core))

	entries := logs.FilterMessage("redirect table built").All()
	if len(entries) != 1 {
		t.Fatalf("expected one boot log line, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["rules"]; got != int64(table.Len()) {
		t.Fatalf("expected rule count %d in log, got %v", table.Len(), got)
	}

	table.Resolve("/extra")
	table.Resolve("/missing")
	hits := logs.FilterMessage("redirect matched").All()
	if len(hits) != 1 {
		t.Fatalf("expected one match log line, got %d", len(hits))
	}
	if got := hits[0].ContextMap()["destination"]; got != "/" {
		t.Fatalf("expected destination in match log, got %v", got)
	}
}

func TestBuildUnknownThemeFallsBack(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	table, err := Build("greenpeace", DefaultResource, zap.New(core))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if table.Theme() != DefaultTheme {
		t.Fatalf("expected fallback to %s, got %s", DefaultTheme, table.Theme())
	}
	if logs.FilterMessage("unknown theme, falling back to default").Len() != 1 {
		t.Fatalf("expected fallback warning")
	}
}

func TestBuildMissingResource(t *testing.T) {
	t.Parallel()

	_, err := Build("cpr", filepath.Join(t.TempDir(), "missing.json"), nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestBuildExternalFileOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "override.json")
	body := `[{"source": "/about", "destination": "/new-about", "permanent": false}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write resource: %v", err)
	}

	table, err := Build("cclw", path, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	rule, ok := table.Resolve("/about")
	if !ok || rule.Destination != "/new-about" {
		t.Fatalf("expected override rule, got %+v (ok=%v)", rule, ok)
	}
	if rule.StatusCode() != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rule.StatusCode())
	}
}

func TestRulesSortedCopy(t *testing.T) {
	t.Parallel()

	table := NewTable(ThemeCPR, nil, nil)
	rules := table.Rules()
	for i := 1; i < len(rules); i++ {
		if rules[i-1].Source >= rules[i].Source {
			t.Fatalf("rules not sorted: %s before %s", rules[i-1].Source, rules[i].Source)
		}
	}

	rules[0].Destination = "/mutated"
	if got := table.Rules()[0].Destination; got == "/mutated" {
		t.Fatalf("expected Rules to return a copy")
	}
}

func ExampleTable_Resolve() {
	table := NewTable(ThemeCPR, nil, nil)
	if rule, ok := table.Resolve("/about"); ok {
		fmt.Println(rule.StatusCode(), rule.Destination)
	}
	// Output: 308 /
}

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/bitPanG98/httpd/internal/authz"
)

type fixedProvider struct{ verdict authz.Verdict }

func (f fixedProvider) CheckAuthorization(_ context.Context, _ *authz.Request, _ authz.MethodMask, _ string) authz.Verdict {
	return f.verdict
}

func testRegistry() *authz.Registry {
	reg := authz.NewRegistry()
	reg.Register("user", fixedProvider{authz.VerdictGranted})
	reg.Register("group", fixedProvider{authz.VerdictDenied})
	return reg
}

func TestBuildScopesResolvesDirectives(t *testing.T) {
	scopes, err := BuildScopes([]Location{
		{Path: "/private", Require: []string{"user alice", "group staff"}},
	}, testRegistry())
	if err != nil {
		t.Fatalf("BuildScopes: %v", err)
	}

	b := scopes.Match("/private/report.txt")
	if b == nil {
		t.Fatalf("no scope matched /private/report.txt")
	}
	list := b.All()
	if len(list) != 2 {
		t.Fatalf("bindings = %d, want 2", len(list))
	}
	if list[0].ProviderName != "user" || list[0].Requirement != "alice" {
		t.Fatalf("first binding = %+v", list[0])
	}
	if list[1].ProviderName != "group" || list[1].Requirement != "staff" {
		t.Fatalf("second binding = %+v", list[1])
	}
}

func TestBuildScopesInheritance(t *testing.T) {
	scopes, err := BuildScopes([]Location{
		{Path: "/private/admin"}, // no directives: inherits /private
		{Path: "/private", Require: []string{"user alice"}},
		{Path: "/private/reports", Require: []string{"group staff"}}, // replaces wholesale
	}, testRegistry())
	if err != nil {
		t.Fatalf("BuildScopes: %v", err)
	}

	admin := scopes.Match("/private/admin/panel")
	if admin == nil || admin.Len() != 1 || admin.All()[0].Requirement != "alice" {
		t.Fatalf("inherited admin bindings = %+v", admin.All())
	}

	reports := scopes.Match("/private/reports/q3")
	if reports == nil || reports.Len() != 1 || reports.All()[0].ProviderName != "group" {
		t.Fatalf("replaced reports bindings = %+v", reports.All())
	}

	if scopes.Match("/public/index.html") != nil {
		t.Fatalf("unconfigured path matched a scope")
	}
}

func TestBuildScopesEmptyRootLocation(t *testing.T) {
	// A location with no directives and no ancestor is still a scope: its
	// empty binding list routes the evaluator to the default provider.
	scopes, err := BuildScopes([]Location{{Path: "/files"}}, testRegistry())
	if err != nil {
		t.Fatalf("BuildScopes: %v", err)
	}
	b := scopes.Match("/files/a.txt")
	if b == nil {
		t.Fatalf("empty location is not a scope")
	}
	if b.Len() != 0 {
		t.Fatalf("bindings = %d, want 0", b.Len())
	}
}

func TestBuildScopesLongestPrefixWins(t *testing.T) {
	scopes, err := BuildScopes([]Location{
		{Path: "/", Require: []string{"user root"}},
		{Path: "/private", Require: []string{"group staff"}},
	}, testRegistry())
	if err != nil {
		t.Fatalf("BuildScopes: %v", err)
	}
	if got := scopes.Match("/private/x").All()[0].ProviderName; got != "group" {
		t.Fatalf("match /private/x = %s, want group", got)
	}
	if got := scopes.Match("/other").All()[0].ProviderName; got != "user" {
		t.Fatalf("match /other = %s, want user", got)
	}
}

func TestBuildScopesLoadTimeFaults(t *testing.T) {
	_, err := BuildScopes([]Location{
		{Path: "/private", Require: []string{"nosuch alice"}},
	}, testRegistry())
	if !errors.Is(err, authz.ErrUnknownProvider) {
		t.Fatalf("unknown provider err = %v", err)
	}

	reg := testRegistry()
	reg.Register("plain", struct{}{})
	_, err = BuildScopes([]Location{
		{Path: "/private", Require: []string{"plain"}},
	}, reg)
	if !errors.Is(err, authz.ErrUnsupportedCapability) {
		t.Fatalf("incapable provider err = %v", err)
	}

	_, err = BuildScopes([]Location{
		{Path: "/private", Limit: []Limit{{Methods: []string{"BREW"}, Require: []string{"user alice"}}}},
	}, testRegistry())
	if err == nil {
		t.Fatalf("unknown method in limit block did not fail")
	}

	_, err = BuildScopes([]Location{{Path: "private"}}, testRegistry())
	if err == nil {
		t.Fatalf("relative location path did not fail")
	}
}

func TestBuildScopesLimitMask(t *testing.T) {
	scopes, err := BuildScopes([]Location{
		{Path: "/api", Limit: []Limit{{Methods: []string{"POST", "PUT"}, Require: []string{"user alice"}}}},
	}, testRegistry())
	if err != nil {
		t.Fatalf("BuildScopes: %v", err)
	}
	b := scopes.Match("/api/items")
	if !b.RequiresAuth("POST") || !b.RequiresAuth("PUT") {
		t.Fatalf("limited methods not covered by mask")
	}
	if b.RequiresAuth("GET") {
		t.Fatalf("GET covered despite limit block")
	}
}

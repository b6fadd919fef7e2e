package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitPanG98/httpd/internal/authz"
)

func req(identity, method string) *authz.Request {
	return &authz.Request{Identity: identity, Method: method, Path: "/private"}
}

func TestValidUser(t *testing.T) {
	p := ValidUser{}
	if got := p.CheckAuthorization(context.Background(), req("alice", "GET"), authz.AllMethods, ""); got != authz.VerdictGranted {
		t.Fatalf("authenticated user = %v, want granted", got)
	}
	if got := p.CheckAuthorization(context.Background(), req("", "GET"), authz.AllMethods, ""); got != authz.VerdictDenied {
		t.Fatalf("anonymous = %v, want denied", got)
	}
}

func TestUserMatchesRequirementList(t *testing.T) {
	p := User{}
	if got := p.CheckAuthorization(context.Background(), req("bob", "GET"), authz.AllMethods, "alice bob"); got != authz.VerdictGranted {
		t.Fatalf("listed user = %v, want granted", got)
	}
	if got := p.CheckAuthorization(context.Background(), req("mallory", "GET"), authz.AllMethods, "alice bob"); got != authz.VerdictDenied {
		t.Fatalf("unlisted user = %v, want denied", got)
	}
}

func TestMethodMaskExclusionDenies(t *testing.T) {
	getOnly, err := authz.MaskOf("GET")
	if err != nil {
		t.Fatalf("MaskOf: %v", err)
	}
	// AllGranted would grant, but the binding does not cover POST, so the
	// provider declines and lets the rest of the chain decide.
	if got := (AllGranted{}).CheckAuthorization(context.Background(), req("alice", "POST"), getOnly, ""); got != authz.VerdictDenied {
		t.Fatalf("out-of-mask method = %v, want denied", got)
	}
	if got := (User{}).CheckAuthorization(context.Background(), req("alice", "POST"), getOnly, "alice"); got != authz.VerdictDenied {
		t.Fatalf("out-of-mask user check = %v, want denied", got)
	}
}

func TestScope(t *testing.T) {
	p := Scope{}
	r := req("alice", "GET")
	r.Scopes = []string{"read", "write"}

	if got := p.CheckAuthorization(context.Background(), r, authz.AllMethods, "admin, write"); got != authz.VerdictGranted {
		t.Fatalf("overlapping scopes = %v, want granted", got)
	}
	if got := p.CheckAuthorization(context.Background(), r, authz.AllMethods, "admin"); got != authz.VerdictDenied {
		t.Fatalf("disjoint scopes = %v, want denied", got)
	}
}

func TestGroupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups")
	data := "# groups\nstaff: alice bob\nadmins: carol\n\nstaff: dave\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write group file: %v", err)
	}

	g, err := NewGroupFile(path)
	if err != nil {
		t.Fatalf("NewGroupFile: %v", err)
	}

	cases := []struct {
		user, groups string
		want         authz.Verdict
	}{
		{"alice", "staff", authz.VerdictGranted},
		{"dave", "staff", authz.VerdictGranted}, // second staff line extends the set
		{"carol", "staff admins", authz.VerdictGranted},
		{"alice", "admins", authz.VerdictDenied},
		{"", "staff", authz.VerdictDenied},
	}
	for _, c := range cases {
		if got := g.CheckAuthorization(context.Background(), req(c.user, "GET"), authz.AllMethods, c.groups); got != c.want {
			t.Fatalf("group check %s in %q = %v, want %v", c.user, c.groups, got, c.want)
		}
	}
}

func TestGroupFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups")
	if err := os.WriteFile(path, []byte("staff alice\n"), 0o644); err != nil {
		t.Fatalf("write group file: %v", err)
	}
	if _, err := NewGroupFile(path); err == nil {
		t.Fatalf("malformed group file did not fail")
	}
}

func TestIPAllow(t *testing.T) {
	p := IPAllow{}
	mk := func(addr string) *authz.Request {
		r := req("", "GET")
		r.RemoteAddr = addr
		return r
	}

	cases := []struct {
		addr, requirement string
		want              authz.Verdict
	}{
		{"10.1.2.3:5642", "10.0.0.0/8", authz.VerdictGranted},
		{"10.1.2.3", "10.0.0.0/8", authz.VerdictGranted},
		{"192.0.2.7:80", "10.0.0.0/8 192.0.2.7", authz.VerdictGranted},
		{"192.0.2.8:80", "10.0.0.0/8 192.0.2.7", authz.VerdictDenied},
		{"[2001:db8::1]:443", "2001:db8::/32", authz.VerdictGranted},
		{"not-an-ip", "10.0.0.0/8", authz.VerdictDenied},
		{"10.1.2.3", "bogus/cidr", authz.VerdictError},
	}
	for _, c := range cases {
		if got := p.CheckAuthorization(context.Background(), mk(c.addr), authz.AllMethods, c.requirement); got != c.want {
			t.Fatalf("ip %s against %q = %v, want %v", c.addr, c.requirement, got, c.want)
		}
	}
}

func TestRegisterInstallsDefault(t *testing.T) {
	reg := authz.NewRegistry()
	if err := Register(reg, Options{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	c, ok := reg.Resolve(authz.DefaultProviderName)
	if !ok {
		t.Fatalf("default provider not registered")
	}
	if _, ok := c.(authz.Provider); !ok {
		t.Fatalf("default provider lacks check capability")
	}
	if _, ok := reg.Resolve("group"); ok {
		t.Fatalf("group provider registered without a group file")
	}
}

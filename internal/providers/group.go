package providers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bitPanG98/httpd/internal/authz"
)

// GroupFile authorizes members of named groups. Membership comes from a plain
// text file loaded once at startup, one group per line:
//
//	staff: alice bob
//	admins: carol
//
// Lines starting with # and blank lines are ignored.
type GroupFile struct {
	members map[string]map[string]struct{} // group -> set of users
}

func NewGroupFile(path string) (*GroupFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open group file: %w", err)
	}
	defer f.Close()

	g := &GroupFile{members: make(map[string]map[string]struct{})}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("group file %s:%d: missing ':'", path, line)
		}
		name = strings.TrimSpace(name)
		set := g.members[name]
		if set == nil {
			set = make(map[string]struct{})
			g.members[name] = set
		}
		for _, user := range strings.Fields(rest) {
			set[user] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read group file %s: %w", path, err)
	}
	return g, nil
}

// CheckAuthorization grants when the identity belongs to any group named in
// the requirement.
func (g *GroupFile) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, requirement string) authz.Verdict {
	if !methods.Contains(req.Method) || req.Identity == "" {
		return authz.VerdictDenied
	}
	for _, group := range strings.Fields(requirement) {
		if _, ok := g.members[group][req.Identity]; ok {
			return authz.VerdictGranted
		}
	}
	return authz.VerdictDenied
}

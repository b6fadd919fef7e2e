package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	fga "github.com/openfga/go-sdk/client"

	"github.com/bitPanG98/httpd/internal/authz"
)

// OpenFGA authorizes via a relationship check against an OpenFGA store. The
// requirement names the relation and object to check, e.g.
//
//	Require fga viewer document:readme
//
// The request identity becomes the user, prefixed with "user:".
type OpenFGA struct {
	c   *fga.OpenFgaClient
	log *slog.Logger
}

type OpenFGAConfig struct {
	APIURL  string
	StoreID string
	ModelID string // optional, pins a specific authorization model
}

func NewOpenFGA(cfg OpenFGAConfig, log *slog.Logger) (*OpenFGA, error) {
	conf := &fga.ClientConfiguration{
		ApiUrl:  cfg.APIURL,
		StoreId: cfg.StoreID,
	}
	if cfg.ModelID != "" {
		conf.AuthorizationModelId = cfg.ModelID
	}
	client, err := fga.NewSdkClient(conf)
	if err != nil {
		return nil, fmt.Errorf("openfga client init: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &OpenFGA{c: client, log: log}, nil
}

func (o *OpenFGA) CheckAuthorization(ctx context.Context, req *authz.Request, methods authz.MethodMask, requirement string) authz.Verdict {
	if !methods.Contains(req.Method) || req.Identity == "" {
		return authz.VerdictDenied
	}
	relation, object, ok := strings.Cut(strings.TrimSpace(requirement), " ")
	if !ok {
		o.log.Error("fga requirement must be \"<relation> <object>\"", "requirement", requirement)
		return authz.VerdictError
	}

	checkReq := fga.ClientCheckRequest{
		User:     "user:" + req.Identity,
		Relation: relation,
		Object:   strings.TrimSpace(object),
	}
	resp, err := o.c.Check(ctx).Body(checkReq).Execute()
	if err != nil {
		o.log.Error("fga check failed", "err", err, "relation", relation, "object", object)
		return authz.VerdictError
	}
	if resp.Allowed != nil && *resp.Allowed {
		return authz.VerdictGranted
	}
	return authz.VerdictDenied
}

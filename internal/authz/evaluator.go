package authz

import (
	"context"
	"log/slog"
)

// AttemptFunc observes one provider attempt: the provider's name and the
// verdict it returned. It is a pure side channel; the evaluator never reads
// anything back from it.
type AttemptFunc func(providerName string, verdict Verdict)

// Evaluator walks a scope's binding chain for one request. Runs are strictly
// sequential: a later binding is consulted only after every earlier one has
// denied. It holds no per-request state, so one Evaluator may serve any number
// of concurrent requests.
type Evaluator struct {
	reg *Registry
	log *slog.Logger

	// OnAttempt, when set, is called after each provider check.
	OnAttempt AttemptFunc
}

func NewEvaluator(reg *Registry, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{reg: reg, log: log}
}

// Evaluate produces the final verdict for one request against a frozen scope.
//
// Multiple bindings express logical OR: the first verdict that is not Denied
// ends the chain. Granted as well as Error short-circuit — a malfunctioning
// check must not be papered over by a later provider's grant. Denied is final
// only once every binding has been consulted.
//
// An empty scope falls back to the well-known default provider; if none is
// registered the scope is misconfigured and the verdict is Error.
func (e *Evaluator) Evaluate(ctx context.Context, req *Request, scope *Bindings) Verdict {
	if scope.Len() == 0 {
		return e.evaluateDefault(ctx, req)
	}

	list := scope.All()
	verdict := VerdictDenied
	for i := range list {
		b := &list[i]
		verdict = b.provider.CheckAuthorization(ctx, req, b.Methods, b.Requirement)
		e.attempt(req, b.ProviderName, verdict)
		if verdict != VerdictDenied {
			break
		}
	}
	return verdict
}

func (e *Evaluator) evaluateDefault(ctx context.Context, req *Request) Verdict {
	capability, ok := e.reg.Resolve(DefaultProviderName)
	if !ok {
		e.log.Error("no default authorization provider configured",
			"method", req.Method, "path", req.Path)
		return VerdictError
	}
	p, ok := capability.(Provider)
	if !ok {
		e.log.Error("default authorization provider lacks check capability",
			"method", req.Method, "path", req.Path)
		return VerdictError
	}
	verdict := p.CheckAuthorization(ctx, req, AllMethods, "")
	e.attempt(req, DefaultProviderName, verdict)
	return verdict
}

func (e *Evaluator) attempt(req *Request, providerName string, v Verdict) {
	e.log.Debug("authz attempt",
		"provider", providerName,
		"verdict", v.String(),
		"user", req.Identity,
		"method", req.Method,
		"path", req.Path,
	)
	if e.OnAttempt != nil {
		e.OnAttempt(providerName, v)
	}
}

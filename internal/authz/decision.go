package authz

import (
	"log/slog"
	"net/http"
)

// Challenger issues an authentication challenge on a response. The hosting
// pipeline supplies it; the engine only decides when it fires.
type Challenger interface {
	Challenge(w http.ResponseWriter, r *http.Request)
}

// ChallengerFunc adapts a function to the Challenger interface.
type ChallengerFunc func(w http.ResponseWriter, r *http.Request)

func (f ChallengerFunc) Challenge(w http.ResponseWriter, r *http.Request) { f(w, r) }

// Mapper turns a final verdict into an outcome and performs the denial side
// effect. Grant is silent; denial logs the refused identity and triggers the
// challenge; error stays generic — the failing provider already reported its
// cause.
type Mapper struct {
	challenger Challenger
	log        *slog.Logger
}

func NewMapper(challenger Challenger, log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{challenger: challenger, log: log}
}

// Apply maps the verdict and, on denial, issues the challenge on w.
func (m *Mapper) Apply(w http.ResponseWriter, r *http.Request, req *Request, v Verdict) Outcome {
	outcome := MapVerdict(v)
	if outcome == OutcomeChallengeAndDeny {
		m.log.Info("authorization denied",
			"user", req.Identity,
			"method", req.Method,
			"path", req.Path,
		)
		if m.challenger != nil {
			m.challenger.Challenge(w, r)
		}
	}
	return outcome
}

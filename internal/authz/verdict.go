package authz

// Verdict is the tri-state result of one provider's check. Error is not a
// synonym for Denied: a Denied verdict lets the chain continue to the next
// binding, while Error (like Granted) stops evaluation immediately.
type Verdict int

const (
	VerdictDenied Verdict = iota
	VerdictGranted
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictGranted:
		return "granted"
	case VerdictDenied:
		return "denied"
	case VerdictError:
		return "error"
	}
	return "unknown"
}

// Outcome is the externally visible result of a whole evaluation, derived 1:1
// from the final Verdict.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeChallengeAndDeny
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeChallengeAndDeny:
		return "challenge_and_deny"
	case OutcomeServerError:
		return "server_error"
	}
	return "unknown"
}

// MapVerdict translates the evaluator's final verdict into an outcome for the
// hosting pipeline. Denial is a normal business outcome, not a fault.
func MapVerdict(v Verdict) Outcome {
	switch v {
	case VerdictGranted:
		return OutcomeContinue
	case VerdictDenied:
		return OutcomeChallengeAndDeny
	default:
		return OutcomeServerError
	}
}

package intent

// Intent labels the high-level purpose of a user message.
type Intent string

const (
	IntentGreeting      Intent = "GREETING"
	IntentOutOfScope    Intent = "OUT_OF_SCOPE"
	IntentInformational Intent = "INFORMATIONAL"
	IntentCutoff        Intent = "CUTOFF"
	IntentEligibility   Intent = "ELIGIBILITY"
	IntentMixed         Intent = "MIXED"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentOutOfScope, IntentInformational,
		IntentCutoff, IntentEligibility, IntentMixed:
		return true
	}
	return false
}

// NeedsCutoffData reports whether the intent routes into the cutoff pipelines.
func (i Intent) NeedsCutoffData() bool {
	return i == IntentCutoff || i == IntentEligibility || i == IntentMixed
}

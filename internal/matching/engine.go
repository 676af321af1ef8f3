package matching

// Decision is the outcome of the escalation check. When AutoAnswer is true,
// Best is the confident match the agent can reply with directly. Otherwise
// Best carries the strongest available suggestion for supervisor context,
// or nil when nothing cleared the search cutoff.
type Decision struct {
	AutoAnswer bool
	Best       *Match
}

// Engine decides between auto-answering from the KB and escalating to a
// human. Two distinct cutoffs are deliberate: a loose search cutoff gathers
// candidates worth showing, a strict confidence cutoff gates auto-answers.
// Collapsing them either hides near-exact matches or answers with loosely
// related entries.
type Engine struct {
	filter RelevanceFilter
}

func NewEngine(filter RelevanceFilter) *Engine {
	return &Engine{filter: filter}
}

// Decide is pure decision logic over the supplied KB snapshot. Both cutoffs
// come from the caller; different call sites use different defaults.
func (e *Engine) Decide(query string, candidates []Candidate, topK int, searchCutoff, confidenceCutoff float64) Decision {
	matches := FindMatches(query, candidates, topK, searchCutoff)
	if len(matches) == 0 {
		return Decision{}
	}

	best := matches[0]
	if best.Score >= confidenceCutoff && e.filter.IsRelevant(query, best.Pattern) {
		return Decision{AutoAnswer: true, Best: &best}
	}
	return Decision{AutoAnswer: false, Best: &best}
}

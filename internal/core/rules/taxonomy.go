package rules

// TaxonomyConfig is the raw keyword configuration of a ruleset. It is plain
// data so that it can be loaded from YAML; Pipeline compiles it into PhraseSets.
type TaxonomyConfig struct {
	HardObligations   []string `yaml:"hard_obligations"`
	SoftObligations   []string `yaml:"soft_obligations"`
	ProcessIndicators []string `yaml:"process_indicators"`
	NegativeActions   []string `yaml:"negative_actions"`
	ActionVerbs       []string `yaml:"action_verbs"`
	UrgencyMarkers    []string `yaml:"urgency_markers"`
	FeedbackPhrases   []string `yaml:"feedback_phrases"`
	ForwardQualifiers []string `yaml:"forward_qualifiers"`
	FillerPhrases     []string `yaml:"filler_phrases"`
	ProfessionalTone  []string `yaml:"professional_tone"`
}

// Taxonomy is the compiled, read-only form of TaxonomyConfig.
type Taxonomy struct {
	HardObligations   PhraseSet
	SoftObligations   PhraseSet
	ProcessIndicators PhraseSet
	NegativeActions   PhraseSet
	ActionVerbs       PhraseSet
	UrgencyMarkers    PhraseSet
	FeedbackPhrases   PhraseSet
	ForwardQualifiers PhraseSet
	FillerPhrases     PhraseSet
	ProfessionalTone  PhraseSet
}

func (c TaxonomyConfig) compile() Taxonomy {
	return Taxonomy{
		HardObligations:   NewPhraseSet(c.HardObligations...),
		SoftObligations:   NewPhraseSet(c.SoftObligations...),
		ProcessIndicators: NewPhraseSet(c.ProcessIndicators...),
		NegativeActions:   NewPhraseSet(c.NegativeActions...),
		ActionVerbs:       NewPhraseSet(c.ActionVerbs...),
		UrgencyMarkers:    NewPhraseSet(c.UrgencyMarkers...),
		FeedbackPhrases:   NewPhraseSet(c.FeedbackPhrases...),
		ForwardQualifiers: NewPhraseSet(c.ForwardQualifiers...),
		FillerPhrases:     NewPhraseSet(c.FillerPhrases...),
		ProfessionalTone:  NewPhraseSet(c.ProfessionalTone...),
	}
}

// defaultTaxonomy returns a fresh copy on every call; callers may tweak the
// slices without affecting other rulesets.
func defaultTaxonomy() TaxonomyConfig {
	return TaxonomyConfig{
		HardObligations: []string{
			"must", "shall", "required to", "is required", "are required",
			"mandatory", "obligated to", "need to", "needs to", "have to",
			"has to", "is responsible for", "are responsible for", "will be expected to",
		},
		SoftObligations: []string{
			"should", "please", "kindly", "we would like", "we'd like",
			"please ensure", "we expect", "it is important that",
			"we request", "we ask that", "would appreciate", "recommended",
			"ought to", "we encourage",
		},
		ProcessIndicators: []string{
			"daily", "weekly", "biweekly", "bi-weekly", "monthly", "quarterly",
			"annually", "every", "each week", "each month", "by eod", "by end of",
			"as needed", "on a regular basis", "regularly", "ongoing",
			"within", "no later than", "deadline", "prior to", "before the",
			"going forward", "on schedule", "per the sla", "according to the sla",
		},
		NegativeActions: []string{
			"do not", "don't", "must not", "shall not", "should not", "never",
			"avoid", "refrain from", "stop", "cease", "prevent", "cannot",
			"may not", "is not permitted", "are not permitted",
		},
		ActionVerbs: []string{
			"provide", "submit", "send", "deliver", "complete", "prepare",
			"review", "update", "ensure", "schedule", "confirm", "share",
			"respond", "reply", "resolve", "fix", "implement", "investigate",
			"escalate", "notify", "inform", "coordinate", "follow up", "upload",
			"maintain", "monitor", "report", "test", "deploy", "document",
			"approve", "sign", "attend", "arrange", "create", "assign",
			"verify", "validate", "track", "address", "acknowledge", "publish",
			"restore", "back up", "patch", "audit", "train", "contact",
		},
		UrgencyMarkers: []string{
			"urgent", "urgently", "asap", "as soon as possible", "immediately",
			"immediate", "critical", "high priority", "top priority",
			"right away", "without delay", "time-sensitive", "time sensitive",
			"at the earliest", "emergency", "blocker", "outage",
		},
		FeedbackPhrases: []string{
			"we are very pleased", "we are pleased", "pleased with",
			"happy with", "satisfied with", "thank you for", "thanks for",
			"great job", "well done", "excellent work", "good work",
			"we appreciate", "impressed with", "collaboration has been",
			"has been great", "has been excellent", "has been helpful",
			"so far", "kudos", "disappointed", "unhappy with",
			"not satisfied", "frustrated with", "we are concerned",
		},
		ForwardQualifiers: []string{
			"continue", "maintain", "keep", "going forward", "moving forward",
			"as we", "in the future", "from now on",
		},
		FillerPhrases: []string{
			"i wanted to let you know that", "i just wanted to mention that",
			"just a quick reminder that", "just a reminder that",
			"just a quick note", "as mentioned earlier", "as previously mentioned",
			"as discussed", "as per our conversation", "as you know",
			"for your information", "fyi", "please note that", "kindly note that",
			"note that", "in addition", "additionally", "furthermore",
			"moreover", "at this point in time", "basically", "actually",
			"also", "just",
		},
		ProfessionalTone: []string{
			"thank you", "thanks", "we appreciate", "appreciate",
			"valued partner", "valued customer", "look forward to",
			"looking forward to", "best regards", "kind regards",
			"warm regards", "sincerely", "pleasure", "grateful",
			"happy to", "please let us know", "do not hesitate",
			"at your convenience", "partnership", "hope this finds you well",
		},
	}
}

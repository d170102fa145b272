package runtime

import (
	"slices"
	"time"

	"github.com/aretw0/verdict/pkg/conditions"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/messages"
)

// ValidateOptions controls a validation pass.
type ValidateOptions struct {
	// Group limits validation to value hosts of this group. Value hosts without a group
	// always take part.
	Group string
	// DuringEdit evaluates the raw input text with each condition's during-edit path.
	DuringEdit bool
	// SkipCallback suppresses the OnValidated hook.
	SkipCallback bool
}

// validator is an instantiated ValidatorDescriptor.
type validator struct {
	desc      domain.ValidatorDescriptor
	condition conditions.Condition
}

// InputValueHost is a value host that also tracks an input value and validates itself.
type InputValueHost struct {
	*ValueHost
	validators []validator
	// refs are the value host names referenced by the condition trees. The cache lives as
	// long as the instance, since descriptors never change in place.
	refs map[string]struct{}
}

func newInputValueHost(h *ValueHost, creator conditions.Creator) (*InputValueHost, error) {
	in := &InputValueHost{ValueHost: h, refs: make(map[string]struct{})}
	for _, vd := range h.desc.Validators {
		if !vd.IsEnabled() {
			continue
		}
		cond, err := creator.Create(vd.Condition)
		if err != nil {
			return nil, err
		}
		cond.GatherValueHostNames(in.refs)
		in.validators = append(in.validators, validator{desc: vd, condition: cond})
	}
	return in, nil
}

// Status returns the effective validation status: Invalid whenever a business logic
// error above Warning is attached, otherwise the status of the latest validation.
func (h *InputValueHost) Status() domain.ValidationStatus {
	return effectiveStatus(h.state)
}

// Issues returns the issues of the latest validation followed by business logic errors.
func (h *InputValueHost) Issues() []domain.Issue {
	issues := slices.Clone(h.state.IssuesFound)
	for _, ble := range h.state.BusinessLogicErrors {
		issues = append(issues, ble.AsIssue(h.desc.Name))
	}
	return issues
}

// ConversionErrorTokenValue returns the reason the last input could not be converted.
func (h *InputValueHost) ConversionErrorTokenValue() string {
	return h.state.ConversionErrorTokenValue
}

// References reports whether the condition trees reference name.
func (h *InputValueHost) References(name string) bool {
	_, ok := h.refs[name]
	return ok
}

// Conditions returns the instantiated conditions in validator order.
func (h *InputValueHost) Conditions() []conditions.Condition {
	out := make([]conditions.Condition, 0, len(h.validators))
	for _, v := range h.validators {
		out = append(out, v.condition)
	}
	return out
}

// SetInputValue replaces the raw input value only. Dependent value hosts are not
// notified because the native value is unchanged.
func (h *InputValueHost) SetInputValue(input any, opts SetValueOptions) error {
	return h.update(action{typ: actSetInputValue, input: input, reset: opts.Reset}, opts)
}

// SetValues replaces the native and input values together.
func (h *InputValueHost) SetValues(value, input any, opts SetValueOptions) error {
	return h.update(action{
		typ:        actSetValues,
		value:      value,
		input:      input,
		reset:      opts.Reset,
		tokenValue: opts.ConversionErrorTokenValue,
	}, opts)
}

// ClearValidation returns the value host to NotAttempted and drops its issues, business
// logic errors and pending async work.
func (h *InputValueHost) ClearValidation() {
	h.apply(action{typ: actClearValidation})
	h.owner.dropPending(h.desc.Name)
}

// Validate runs the validators and stores the outcome in the state. A configuration
// fault stops the pass and is returned; the state is left untouched in that case.
func (h *InputValueHost) Validate(opts ValidateOptions) (domain.ValueHostValidateResult, error) {
	result := domain.ValueHostValidateResult{ValueHostName: h.desc.Name}
	if !inGroup(h.desc.Group, opts.Group) {
		result.Status = h.Status()
		result.Issues = h.Issues()
		return result, nil
	}

	var (
		issues       []domain.Issue
		pending      []pendingWork
		matched      int
		undetermined int
		severe       bool
		carried      = make(map[int]bool)
	)
	resolver := h.owner

	for _, v := range h.validators {
		caps := v.condition.Capabilities()

		var (
			outcome domain.TriState
			kept    *domain.Issue
		)
		switch {
		case opts.DuringEdit:
			text, ok := h.state.InputValue.(string)
			if caps.DuringEdit != nil && ok {
				outcome = caps.DuringEdit(text, h)
				break
			}
			// Rules that cannot judge partial input keep their last NoMatch.
			outcome = domain.Undetermined
			if prior, found := h.previousIssue(v, carried); found {
				outcome = domain.NoMatch
				kept = &prior
			}
		case caps.Async != nil:
			pending = append(pending, pendingWork{validator: v, evaluate: caps.Async})
			continue
		default:
			var err error
			outcome, err = v.condition.Evaluate(h, resolver)
			if err != nil {
				return result, err
			}
		}

		switch outcome {
		case domain.Match:
			matched++
		case domain.Undetermined:
			undetermined++
		case domain.NoMatch:
			issue := h.issueFor(v)
			if kept != nil {
				issue = *kept
			}
			issues = append(issues, issue)
			if issue.Severity == domain.SeveritySevere {
				severe = true
			}
		}
		if severe {
			pending = nil
			break
		}
	}

	status := outcomeStatus(issues, matched, undetermined)
	if len(pending) > 0 && status != domain.StatusInvalid {
		h.owner.setPending(h.desc.Name, pendingBatch{counter: h.state.ChangeCounter, status: status, work: pending})
		status = domain.StatusAsyncProcessing
	} else {
		h.owner.dropPending(h.desc.Name)
	}

	h.apply(action{typ: actSetValidation, status: status, issues: issues})

	result.Status = h.Status()
	result.Issues = h.Issues()
	result.Pending = len(pending)
	if !opts.SkipCallback {
		h.owner.emitValidated(h.desc.Name, result, opts.DuringEdit)
	}
	return result, nil
}

// previousIssue finds the issue v reported in the last validation pass. Indexes already
// claimed in used are skipped so that identical validators each keep their own issue.
func (h *InputValueHost) previousIssue(v validator, used map[int]bool) (domain.Issue, bool) {
	for i, issue := range h.state.IssuesFound {
		if used[i] {
			continue
		}
		if issue.ConditionType == v.condition.ConditionType() &&
			issue.ErrorCode == v.desc.ErrorCode &&
			issue.Severity == v.desc.EffectiveSeverity() {
			used[i] = true
			return issue, true
		}
	}
	return domain.Issue{}, false
}

// issueFor builds the issue reported when v does not match.
func (h *InputValueHost) issueFor(v validator) domain.Issue {
	ct := v.condition.ConditionType()
	tokens := messages.Tokens{
		Label:         h.Label(),
		Value:         h.state.Value,
		DataType:      h.desc.DataType,
		ConditionType: ct,
	}
	if domain.IsUndefined(tokens.Value) {
		tokens.Value = h.state.InputValue
	}
	loc := h.owner.services.Localization

	issue := domain.Issue{
		ConditionType: ct,
		ValueHostName: h.desc.Name,
		Severity:      v.desc.EffectiveSeverity(),
		ErrorCode:     v.desc.ErrorCode,
		ErrorMessage:  messages.Format(messages.Resolve(loc, v.desc.ErrorCode, v.desc.ErrorMessage, ct), tokens),
	}
	if v.desc.SummaryMessage != "" {
		issue.SummaryMessage = messages.Format(loc.Localize(v.desc.ErrorCode+".summary", v.desc.SummaryMessage), tokens)
	}
	return issue
}

// outcomeStatus folds the results of a validation pass. Warnings never invalidate.
func outcomeStatus(issues []domain.Issue, matched, undetermined int) domain.ValidationStatus {
	for _, issue := range issues {
		if issue.Severity.AboveWarning() {
			return domain.StatusInvalid
		}
	}
	if len(issues) == 0 && matched == 0 && undetermined > 0 {
		return domain.StatusUndetermined
	}
	return domain.StatusValid
}

func effectiveStatus(s domain.ValueHostState) domain.ValidationStatus {
	for _, ble := range s.BusinessLogicErrors {
		if ble.EffectiveSeverity().AboveWarning() {
			return domain.StatusInvalid
		}
	}
	return s.Status
}

func inGroup(hostGroup, requested string) bool {
	return requested == "" || hostGroup == "" || hostGroup == requested
}

func (m *Manager) emitValidated(name string, result domain.ValueHostValidateResult, duringEdit bool) {
	if m.hooks.OnValidated == nil {
		return
	}
	m.hooks.OnValidated(&domain.ValidatedEvent{
		EventBase:     domain.EventBase{Timestamp: time.Now(), Type: domain.EventValidated},
		ValueHostName: name,
		Status:        result.Status,
		Issues:        result.Issues,
		DuringEdit:    duringEdit,
	})
}

/*
Package verdict is a rule evaluation engine for form validation.

It evaluates business rules ("conditions") against named values ("value hosts") and keeps
the validation state of every field consistent as values change, including fields whose
rules depend on other fields.

# Concept

Every condition returns one of three results: Match, NoMatch or Undetermined. Undetermined
means the rule could not be evaluated (a missing value, a type mismatch, a failed
conversion) and is never silently treated as a pass or a failure. Compound conditions
(AllMatch, AnyMatch, CountMatches, Not) combine child results, optionally overriding how an
Undetermined child counts.

Value host state is replaced on every change, never modified in place, so a snapshot taken
with State can be persisted and handed back through WithState to rebuild the same form.

# Key Features

  - Tri-state rules: an unresolved value never implies validity or invalidity.
  - Cross-field ripple: changing a field marks the fields whose rules reference it as
    changed but unvalidated, or re-validates them right away.
  - Business logic errors: server-side errors are merged per field or kept at form level.
  - Save gate: DoNotSaveNativeValue stays true while any field is invalid, waiting on async
    work, or edited since its last validation.

# Usage

	form, err := verdict.New([]domain.ValueHostDescriptor{
		{Name: "email", Validators: []domain.ValidatorDescriptor{
			{Condition: domain.ConditionConfig{"conditionType": "RequireText"}},
		}},
		{Name: "confirm", Validators: []domain.ValidatorDescriptor{
			{Condition: domain.ConditionConfig{
				"conditionType":       "EqualTo",
				"secondValueHostName": "email",
			}, ErrorMessage: "Emails do not match"},
		}},
	})
	if err != nil {
		log.Fatal(err)
	}

	_ = form.SetValue("email", "someone@example.com", verdict.SetValueOptions{})
	_ = form.SetValue("confirm", "someone@example.org", verdict.SetValueOptions{})

	result, err := form.Validate(verdict.ValidateOptions{})
	if err != nil {
		log.Fatal(err) // configuration fault
	}
	if !result.IsValid {
		for _, issue := range result.Issues {
			log.Println(issue.ValueHostName, issue.ErrorMessage)
		}
	}
*/
package verdict

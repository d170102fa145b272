/*
Package conditions implements the rules evaluated by the verdict engine.

A Condition is a stateless evaluator over a value host and a resolver that returns a
tri-state result. Leaf conditions test one value (required text, ranges, pairwise
comparisons, regular expressions, lengths, data type checks). Compound conditions own
child conditions and fold their results with AND, OR or counting semantics.

Conditions are created from domain.ConditionConfig maps by a Factory, keyed by the
conditionType property:

	f := conditions.NewFactory()
	cond, err := f.Create(domain.ConditionConfig{
		"conditionType": conditions.TypeRange,
		"minimum":       "C",
		"maximum":       "G",
	})

Evaluation never fails for data reasons: missing values and type mismatches produce
domain.Undetermined. An error is returned only for configuration faults, such as a
reference to an unknown value host.
*/
package conditions

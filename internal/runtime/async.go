package runtime

import (
	"context"
	"slices"

	"github.com/aretw0/verdict/pkg/conditions"
	"github.com/aretw0/verdict/pkg/domain"
)

type pendingWork struct {
	validator validator
	evaluate  conditions.AsyncEvaluator
}

// pendingBatch is the async work started by one validation pass.
type pendingBatch struct {
	// counter is the change counter the work was started for.
	counter int
	// status is the outcome of the synchronous validators.
	status domain.ValidationStatus
	work   []pendingWork
}

func (m *Manager) setPending(name string, batch pendingBatch) {
	m.pending[name] = batch
}

func (m *Manager) dropPending(name string) {
	delete(m.pending, name)
}

// Pending returns the number of async conditions waiting to be resolved.
func (m *Manager) Pending() int {
	n := 0
	for _, batch := range m.pending {
		n += len(batch.work)
	}
	return n
}

// ResolvePending runs the outstanding async conditions on the caller's goroutine and
// folds their results into the value hosts that are still AsyncProcessing. Results for
// a value host whose value changed in the meantime are discarded.
func (m *Manager) ResolvePending(ctx context.Context) error {
	for _, name := range m.order {
		batch, ok := m.pending[name]
		if !ok {
			continue
		}
		in := m.inputs[name]

		issues := slices.Clone(in.state.IssuesFound)
		matched := 0
		for _, work := range batch.work {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := work.evaluate(ctx, in, m)
			if err != nil {
				return err
			}
			switch outcome {
			case domain.Match:
				matched++
			case domain.NoMatch:
				issues = append(issues, in.issueFor(work.validator))
			}
		}

		if current, ok := m.pending[name]; !ok || current.counter != batch.counter {
			continue
		}
		m.dropPending(name)
		if in.state.ChangeCounter != batch.counter {
			m.logger.Debug("discarding stale async result", "value_host", name,
				"started_at", batch.counter, "current", in.state.ChangeCounter)
			continue
		}

		status := batch.status
		switch {
		case outcomeStatus(issues, 1, 0) == domain.StatusInvalid:
			status = domain.StatusInvalid
		case status == domain.StatusUndetermined && matched > 0:
			status = domain.StatusValid
		}
		in.apply(action{typ: actSetValidation, status: status, issues: issues})
		m.emitValidated(name, domain.ValueHostValidateResult{
			ValueHostName: name,
			Status:        in.Status(),
			Issues:        in.Issues(),
		}, false)
	}
	return nil
}

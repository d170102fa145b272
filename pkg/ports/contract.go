package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractState() *domain.ManagerState {
	return &domain.ManagerState{
		ValueHosts: []domain.ValueHostState{
			{
				Name:          "email",
				Kind:          domain.KindInput,
				Value:         "someone@example.com",
				InputValue:    "someone@example.com",
				ChangeCounter: 2,
				Status:        domain.StatusInvalid,
				IssuesFound: []domain.Issue{
					{ConditionType: "RegExp", ValueHostName: "email", Severity: domain.SeverityError, ErrorMessage: "bad"},
				},
			},
			{
				Name:  "quantity",
				Kind:  domain.KindStatic,
				Value: domain.Undefined,
			},
		},
		FormBusinessLogicErrors: []domain.BusinessLogicError{{ErrorMessage: "rejected"}},
	}
}

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState()

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.ValueHosts, 2)

		email, ok := loaded.Find("email")
		require.True(t, ok)
		assert.Equal(t, "someone@example.com", email.Value)
		assert.Equal(t, domain.StatusInvalid, email.Status)
		assert.Equal(t, 2, email.ChangeCounter)
		require.Len(t, email.IssuesFound, 1)
		assert.Equal(t, "RegExp", email.IssuesFound[0].ConditionType)

		// Undefined must survive persistence; it is not the same as nil.
		quantity, ok := loaded.Find("quantity")
		require.True(t, ok)
		assert.True(t, domain.IsUndefined(quantity.Value))

		require.Len(t, loaded.FormBusinessLogicErrors, 1)
		assert.Equal(t, "rejected", loaded.FormBusinessLogicErrors[0].ErrorMessage)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractState())
		_ = store.Save(ctx, id2, contractState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

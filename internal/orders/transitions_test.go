package orders

import (
	"testing"

	"veena_crackers_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition_ForwardOnly(t *testing.T) {
	assert.NoError(t, CheckTransition(models.StatusPending, models.StatusDispatched))
	assert.NoError(t, CheckTransition(models.StatusDispatched, models.StatusDelivered))
}

func TestCheckTransition_SkipForbidden(t *testing.T) {
	err := CheckTransition(models.StatusPending, models.StatusDelivered)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.StatusPending, transitionErr.From)
	assert.Equal(t, models.StatusDelivered, transitionErr.To)
}

func TestCheckTransition_BackwardForbidden(t *testing.T) {
	err := CheckTransition(models.StatusDelivered, models.StatusDispatched)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestCheckTransition_DeliveredIsTerminal(t *testing.T) {
	assert.Error(t, CheckTransition(models.StatusDelivered, models.StatusPending))
	assert.Error(t, CheckTransition(models.StatusDelivered, models.StatusDelivered))
	assert.Empty(t, ValidStatusTransitions(models.StatusDelivered))
}

func TestCheckTransition_UnknownTarget(t *testing.T) {
	assert.Error(t, CheckTransition(models.StatusPending, "Shipped"))
}

func TestCheckTransition_UnknownCurrentAllowsResync(t *testing.T) {
	// Donnée historique avec un statut inconnu : l'admin peut resynchroniser
	assert.NoError(t, CheckTransition("Processing", models.StatusPending))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(models.StatusPending))
	assert.True(t, IsValidStatus(models.StatusDispatched))
	assert.True(t, IsValidStatus(models.StatusDelivered))
	assert.False(t, IsValidStatus("Shipped"))
	assert.False(t, IsValidStatus(""))
}

func TestIsValidType(t *testing.T) {
	assert.True(t, IsValidType(models.TypeToPay))
	assert.True(t, IsValidType(models.TypePaid))
	assert.False(t, IsValidType("CASH"))
}

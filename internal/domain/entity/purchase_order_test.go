package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

func TestPurchaseOrderLine_Pending(t *testing.T) {
	l := entity.PurchaseOrderLine{OrderedQty: 10, ReceivedQty: 4}
	assert.Equal(t, 6, l.PendingQty())
	assert.False(t, l.IsComplete())

	l.ReceivedQty = 10
	assert.Equal(t, 0, l.PendingQty())
	assert.True(t, l.IsComplete())
}

func TestPurchaseOrder_Transitions(t *testing.T) {
	po := &entity.PurchaseOrder{Status: entity.POStatusPending}
	assert.True(t, po.CanTransitionTo(entity.POStatusPartial))
	assert.True(t, po.CanTransitionTo(entity.POStatusCancelled))
	assert.False(t, po.CanTransitionTo(entity.POStatusPending))

	po.Status = entity.POStatusComplete
	assert.False(t, po.CanTransitionTo(entity.POStatusCancelled), "una orden completa no cambia")

	po.Status = entity.POStatusCancelled
	assert.False(t, po.CanTransitionTo(entity.POStatusPending))
}

func TestPurchaseOrder_StatusFromLines(t *testing.T) {
	po := &entity.PurchaseOrder{Status: entity.POStatusPending, Lines: []entity.PurchaseOrderLine{
		{OrderedQty: 5, ReceivedQty: 5},
		{OrderedQty: 3, ReceivedQty: 0},
	}}
	assert.Equal(t, entity.POStatusPartial, po.StatusFromLines())

	po.Lines[1].ReceivedQty = 3
	assert.Equal(t, entity.POStatusComplete, po.StatusFromLines())

	po.Status = entity.POStatusCancelled
	assert.Equal(t, entity.POStatusCancelled, po.StatusFromLines())
}

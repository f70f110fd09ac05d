package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineItem(t *testing.T) {
	assert.Equal(t, "100-1-parafuso-m8", LineItem("100", 1, "PARAFUSO M8"))
	assert.Equal(t, "100-1-parafuso-aco", LineItem("100", 1, "Parafuso Aço"))
	assert.Equal(t, "100-2", LineItem("100", 2, ""))
}

func TestLineItemDeterministic(t *testing.T) {
	first := LineItem("100", 3, "Válvula de Esfera 1/2\"")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, LineItem("100", 3, "Válvula de Esfera 1/2\""))
	}
}

func TestServiceInvoice(t *testing.T) {
	assert.Equal(t, "12345-12-345-678-0001-90",
		ServiceInvoice("12345", "12.345.678/0001-90"))
	assert.NotEqual(t,
		ServiceInvoice("12345", "12.345.678/0001-90"),
		ServiceInvoice("12346", "12.345.678/0001-90"))
}

func TestPurchaseOrder(t *testing.T) {
	assert.Equal(t, "4501000001-10", PurchaseOrder("4501000001", "10"))
	assert.NotEqual(t, PurchaseOrder("4501000001", "10"), PurchaseOrder("4501000001", "20"))
}

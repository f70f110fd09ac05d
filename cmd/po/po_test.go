package po_test

import (
	"testing"

	"warehouse/fiscal-recon/cmd/po"

	"github.com/stretchr/testify/assert"
)

func TestPOCommandMetadata(t *testing.T) {
	assert.Equal(t, "po", po.Cmd.Use)
	assert.Contains(t, po.Cmd.Short, "purchase-order")
	assert.Contains(t, po.Cmd.Long, "replaces")
	assert.NotNil(t, po.Cmd.Run)
}

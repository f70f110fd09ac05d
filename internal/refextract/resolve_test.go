package refextract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"warehouse/fiscal-recon/internal/models"
)

func TestResolveDocumentPO(t *testing.T) {
	records := []models.FiscalLineRecord{
		{DocumentNumber: "100", LineIndex: 1},
		{DocumentNumber: "100", LineIndex: 2, ReferencePO: "4501123456"},
		{DocumentNumber: "100", LineIndex: 3},
		{DocumentNumber: "200", LineIndex: 1},
	}

	ResolveDocumentPO(records)

	assert.Equal(t, "4501123456", records[0].ReferencePO)
	assert.Equal(t, "4501123456", records[1].ReferencePO)
	assert.Equal(t, "4501123456", records[2].ReferencePO)
	assert.Equal(t, "", records[3].ReferencePO)
}

func TestResolveDocumentPOFirstNonEmptyWins(t *testing.T) {
	records := []models.FiscalLineRecord{
		{DocumentNumber: "100", LineIndex: 1, ReferencePO: "4501000001"},
		{DocumentNumber: "100", LineIndex: 2, ReferencePO: "4502000002"},
	}

	ResolveDocumentPO(records)

	assert.Equal(t, "4501000001", records[0].ReferencePO)
	assert.Equal(t, "4501000001", records[1].ReferencePO)
}

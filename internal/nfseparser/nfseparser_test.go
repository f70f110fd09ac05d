package nfseparser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/fiscal-recon/internal/parsererror"
)

const sampleNFSeText = `Prefeitura Municipal de Curitiba
NFS-e: 12345
Data e Hora da Emissão: 10/03/2025 14:30
Competência: 03/2025
Código de Verificação: ABCD-1234
Prestador de Serviço
Razão Social/Nome: SERVICOS TECNICOS LTDA
CNPJ/CPF: 12.345.678/0001-90
Telefone: (41) 3333-4444
e-mail: contato@servicostecnicos.com.br
Tomador de Serviço
Razão Social/Nome: ANDRITZ BRASIL LTDA
CNPJ/CPF do Tomador: 98.765.432/0001-55
Endereço e CEP: Rua das Industrias 1000, Curitiba - 81000-000
Discriminação do Serviço
Manutenção industrial conforme pedido 4501123456
Obra referente ao projeto A-BC-123456-001-2024-001
Código do Serviço / Atividade 14.01
Valor do Serviço R$ 1.234,56
ISSQN Retido R$ 0,00
Valor Líquido R$ 1.234,56
`

func TestParseTextExtractsFields(t *testing.T) {
	parser := New(NewMockPDFExtractor(sampleNFSeText, nil))
	record := parser.ParseText(sampleNFSeText)

	assert.Equal(t, "12345", record.DocumentNumber)
	assert.Equal(t, "2025-03-10", record.IssueDate.Format("2006-01-02"))
	assert.Equal(t, "03/2025", record.Competence)
	assert.Equal(t, "ABCD-1234", record.VerificationCode)

	assert.Equal(t, "SERVICOS TECNICOS LTDA", record.Issuer.Name)
	assert.Equal(t, "12.345.678/0001-90", record.Issuer.TaxID)
	assert.Equal(t, "(41) 3333-4444", record.Issuer.Phone)
	assert.Equal(t, "contato@servicostecnicos.com.br", record.Issuer.Email)

	assert.Equal(t, "ANDRITZ BRASIL LTDA", record.Recipient.Name)
	assert.Equal(t, "98.765.432/0001-55", record.Recipient.TaxID)
	assert.Contains(t, record.Recipient.Address, "Curitiba")

	assert.Contains(t, record.Description, "Manutenção industrial")
	assert.Equal(t, "14.01", record.ServiceCode)

	assert.True(t, decimal.RequireFromString("1234.56").Equal(record.TotalPrice))
	assert.True(t, decimal.RequireFromString("1234.56").Equal(record.NetValue))
	assert.True(t, record.ISSWithheld.IsZero())
}

func TestParseTextDerivesReferencesAndKey(t *testing.T) {
	parser := New(nil)
	record := parser.ParseText(sampleNFSeText)

	assert.Equal(t, "4501123456", record.ReferencePO)
	assert.Equal(t, "123456", record.ReferenceProjectCode)
	assert.Equal(t, "12345-12-345-678-0001-90", record.UniqueKey)

	// single-line document: line total doubles as invoice total
	assert.True(t, decimal.NewFromInt(1).Equal(record.Quantity))
	assert.True(t, record.UnitPrice.Equal(record.TotalPrice))
	assert.True(t, record.InvoiceTotal.Equal(record.TotalPrice))
}

func TestParseTextMissingFieldsStayEmpty(t *testing.T) {
	parser := New(nil)
	record := parser.ParseText("NFS-e: 99\nqualquer conteúdo sem os demais campos")

	assert.Equal(t, "99", record.DocumentNumber)
	assert.Equal(t, "", record.VerificationCode)
	assert.Equal(t, "", record.Issuer.Name)
	assert.True(t, record.TotalPrice.IsZero())
	assert.True(t, record.IssueDate.IsZero())
}

func TestParseFileUsesExtractor(t *testing.T) {
	parser := New(NewMockPDFExtractor(sampleNFSeText, nil))

	record, err := parser.ParseFile("nota.pdf")
	require.NoError(t, err)
	assert.Equal(t, "nota.pdf", record.SourceFile)
	assert.Equal(t, "12345", record.DocumentNumber)
}

func TestParseFileExtractionError(t *testing.T) {
	parser := New(NewMockPDFExtractor("", errors.New("broken file")))

	_, err := parser.ParseFile("nota.pdf")
	require.Error(t, err)
	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseFileEmptyText(t *testing.T) {
	parser := New(NewMockPDFExtractor("", nil))

	_, err := parser.ParseFile("nota.pdf")
	require.Error(t, err)
	var extractionErr *parsererror.DataExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestValidateFormat(t *testing.T) {
	valid := New(NewMockPDFExtractor("texto", nil))
	ok, err := valid.ValidateFormat("nota.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	invalid := New(NewMockPDFExtractor("", errors.New("not a pdf")))
	ok, err = invalid.ValidateFormat("nota.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

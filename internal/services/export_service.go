package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// ExportService builds downloadable artifacts: the fichas spreadsheet
// and the contract one-page PDF (lâmina)
type ExportService struct {
	fichaRepo    repository.FichaRepository
	contractRepo repository.ContractRepository
}

// NewExportService creates a new export service
func NewExportService(fichaRepo repository.FichaRepository, contractRepo repository.ContractRepository) *ExportService {
	return &ExportService{fichaRepo: fichaRepo, contractRepo: contractRepo}
}

// FichasXLSX exports fichas matching the query to a spreadsheet
func (s *ExportService) FichasXLSX(ctx context.Context, query *repository.ListQuery) ([]byte, string, error) {
	fichas, _, err := s.fichaRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Fichas"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Nome", "Tipo", "CPF", "E-mail", "Telefone", "Cidade", "UF", "Cargo", "Empresa"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, ficha := range fichas {
		cargo := ficha.Cargo
		empresa := ""
		if ficha.IsCliente() {
			if ficha.CargoCliente != nil {
				cargo = *ficha.CargoCliente
			}
			if ficha.Empresa != nil {
				empresa = ficha.Empresa.Nome
			}
		}

		values := []any{
			ficha.Nome, ficha.Tipo, ficha.CPF, ficha.Email,
			ficha.Telefone, ficha.Cidade, ficha.UF, cargo, empresa,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "D", "D", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("fichas_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ContractLamina renders the one-page contract summary PDF
func (s *ExportService) ContractLamina(ctx context.Context, contractID uint) ([]byte, string, error) {
	contract, err := s.contractRepo.FindByIDWithDetails(ctx, contractID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Lâmina do Contrato"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, tr(contract.Nome))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	writeField := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 7, tr(label))
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(120, 7, tr(value))
		pdf.Ln(6)
	}

	writeField("Status:", contract.Status)
	writeField("Setor:", contract.Setor)
	if contract.Empresa != nil {
		writeField("Empresa:", contract.Empresa.Nome)
	}
	writeField("Responsável:", contract.Owner.FullName)
	if contract.Valor != nil {
		writeField("Valor:", fmt.Sprintf("R$ %.2f", *contract.Valor))
	}
	if contract.DataInicio != nil {
		writeField("Início:", contract.DataInicio.Format("02/01/2006"))
	}
	if contract.DataFim != nil {
		writeField("Fim:", contract.DataFim.Format("02/01/2006"))
	}
	if contract.Objeto != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 7, "Objeto:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(170, 5, tr(contract.Objeto), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Participantes")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(contract.Participants) == 0 {
		pdf.Cell(120, 6, tr("Nenhum participante cadastrado"))
		pdf.Ln(6)
	}
	for _, p := range contract.Participants {
		role := p.Role
		if p.Role == models.ParticipantRoleOutro && p.CustomRole != nil {
			role = *p.CustomRole
		}
		pdf.Cell(90, 6, tr(p.Ficha.Nome))
		pdf.Cell(60, 6, tr(role))
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, tr("Participação das Empresas"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, p := range contract.Participations {
		pdf.Cell(90, 6, tr(p.Nome))
		pdf.Cell(40, 6, fmt.Sprintf("%.2f%%", p.Percentage))
		pdf.Ln(5)
	}
	summary := models.ComputeParticipationSummary(contract.Participations)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(90, 6, "Total")
	pdf.Cell(40, 6, fmt.Sprintf("%.2f%%", summary.Total))
	pdf.Ln(8)

	if len(contract.Obras) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "Obras")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, o := range contract.Obras {
			pdf.Cell(80, 6, tr(o.Nome))
			pdf.Cell(30, 6, tr(fmt.Sprintf("%s/%s", o.Rodovia, o.UF)))
			pdf.Cell(50, 6, fmt.Sprintf("km %.1f a %.1f", o.KmInicial, o.KmFinal))
			pdf.Ln(5)
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("lamina_contrato_%d.pdf", contract.ID)
	return buf.Bytes(), filename, nil
}

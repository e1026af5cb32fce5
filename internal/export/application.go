// Package export renders finished records into XLSX artifacts: the
// application summary sheet and the passport translation sheet.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/merge"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ApplicationSheet renders the persisted record as a two-column summary
// workbook, columns ordered like the destination table.
type ApplicationSheet struct {
	logger *slog.Logger
}

func NewApplicationSheet(logger *slog.Logger) *ApplicationSheet {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationSheet{logger: logger}
}

func (r *ApplicationSheet) Render(ctx context.Context, s *entity.Session, rec entity.CanonicalRecord) (entity.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return entity.Artifact{}, err
	}
	// The translation service produces no application; its own renderer
	// covers it.
	if s.Service == constants.SvcPassportTranslation {
		return entity.Artifact{}, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Заявка"
	f.SetSheetName("Sheet1", sheet)
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 60)

	f.SetCellValue(sheet, "A1", string(s.Service))
	f.SetCellValue(sheet, "A2", "Сформировано")
	f.SetCellValue(sheet, "B2", time.Now().Format("02.01.2006 15:04"))

	row := 4
	for _, col := range merge.TableColumns(constants.TableFor(s.Service)) {
		value, ok := rec[col]
		if !ok || value == "" {
			continue
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), col)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return entity.Artifact{}, common.NewAppError("RENDER", "write application workbook", err)
	}
	name := fmt.Sprintf("заявка_%s.xlsx", s.ID.String()[:8])
	r.logger.Info("export.application.rendered", "session_id", s.ID, "fields", row-4, "bytes", buf.Len())
	return entity.Artifact{Name: name, MIME: xlsxMIME, Content: buf.Bytes()}, nil
}

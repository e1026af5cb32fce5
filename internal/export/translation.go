package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
)

// PassportTranslation renders the standard Uzbek passport translation
// sheet from the extracted passport fields. Layout follows the notarial
// template: translation header, passport data table, the split name, and
// the labeled biography lines.
type PassportTranslation struct {
	logger *slog.Logger
}

func NewPassportTranslation(logger *slog.Logger) *PassportTranslation {
	if logger == nil {
		logger = slog.Default()
	}
	return &PassportTranslation{logger: logger}
}

// regionRu localizes the untranslated REGION token OCR leaves in place
// names.
func regionRu(s string) string {
	s = strings.ReplaceAll(s, "REGION", "ОБЛАСТЬ")
	return strings.ReplaceAll(s, "region", "ОБЛАСТЬ")
}

func (r *PassportTranslation) Render(ctx context.Context, s *entity.Session, rec entity.CanonicalRecord) (entity.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return entity.Artifact{}, err
	}
	if s.Service != constants.SvcPassportTranslation {
		return entity.Artifact{}, nil
	}

	get := func(key string) string { return strings.ToUpper(rec[key]) }
	number := get("passport_number")

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Перевод"
	f.SetSheetName("Sheet1", sheet)
	f.SetColWidth(sheet, "A", "D", 28)

	row := 1
	line := func(cells ...string) {
		for i, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	line("Перевод выполнен с узбекского и английского языков на русский язык/")
	row++
	line("РЕСПУБЛИКА УЗБЕКИСТАН")
	line("УЗБЕКИСТАН")
	line("ПАСПОРТ")
	line(number)
	row++

	line("ПАСПОРТ", "ТИП", "КОД СТРАНЫ", "НОМЕР ПАСПОРТА")
	passportType := rec["passport_type"]
	if passportType == "" {
		passportType = "P"
	}
	countryCode := rec["country_code"]
	if countryCode == "" {
		countryCode = "UZB"
	}
	line("ПАСПОРТ", strings.ToUpper(passportType), strings.ToUpper(countryCode), number)
	row++

	fio := strings.Fields(get("fio"))
	var last, first, middle string
	if len(fio) > 0 {
		last = fio[0]
	}
	if len(fio) > 1 {
		first = fio[1]
	}
	if len(fio) > 2 {
		middle = strings.Join(fio[2:], " ")
	}
	line("ФАМИЛИЯ", "ИМЯ", "ОТЧЕСТВО")
	line(last, first, middle)
	row++

	line("ГРАЖДАНСТВО", regionRu(get("nationality")))
	line("ДАТА РОЖДЕНИЯ", get("birthdate"))
	line("МЕСТО РОЖДЕНИЯ", regionRu(get("birth_place")))
	line("ПОЛ", get("sex"))
	line("ДАТА ВЫДАЧИ", get("issue_date"))
	line("ДЕЙСТВИТЕЛЕН ДО", get("expiry_date"))
	line("ОРГАН ВЫДАЧИ", regionRu(get("authority")))
	row++

	line("Стр.3")
	line("РЕСПУБЛИКА УЗБЕКИСТАН")
	line("UZB")
	line("/подписано/ подпись владельца")
	line(number)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return entity.Artifact{}, common.NewAppError("RENDER", "write translation workbook", err)
	}
	name := "перевод_паспорта.xlsx"
	if number != "" {
		name = fmt.Sprintf("перевод_паспорта_%s.xlsx", number)
	}
	r.logger.Info("export.translation.rendered", "session_id", s.ID, "bytes", buf.Len())
	return entity.Artifact{Name: name, MIME: xlsxMIME, Content: buf.Bytes()}, nil
}

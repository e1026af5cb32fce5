package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/easymigrate/docintake/constants"
)

func TestPassportParserBasics(t *testing.T) {
	reply := "ФИО: Иванов Иван Иванович\n" +
		"ФИО (латиницей): Ivanov Ivan\n" +
		"Дата рождения: 01.02.1990\n" +
		"Место рождения: FERGANA REGION\n" +
		"Пол: M\n" +
		"Серия: AB\n" +
		"Номер: 1234567\n" +
		"Дата выдачи: 05.06.2020\n" +
		"Срок действия: 05.06.2030\n" +
		"Кем выдан: MIA 12345\n" +
		"Страна: Uzbekistan\n" +
		"МРЗ: p<uzb<<ivanov\n"

	fs := PassportParser(VariantUzbek)(reply)

	assert.Equal(t, "ИВАНОВ ИВАН ИВАНОВИЧ", fs["fio"])
	assert.Equal(t, "IVANOV IVAN", fs["fio_latin"])
	assert.Equal(t, "01.02.1990", fs["birthdate"])
	assert.Equal(t, "ФЕРГАНСКАЯ ОБЛАСТЬ", fs["birth_place"])
	assert.Equal(t, "МУЖСКОЙ", fs["sex"])
	assert.Equal(t, "AB", fs["passport_series"])
	assert.Equal(t, "1234567", fs["passport_number"])
	assert.Equal(t, "МВД 12345", fs["authority"])
	assert.Equal(t, "УЗБЕКИСТАН", fs["nationality"])
	assert.Equal(t, "P<UZB<<IVANOV", fs["mrz"])
}

func TestPassportParserSentinelsNormalizeToAbsent(t *testing.T) {
	reply := "ФИО: Не найдено\nСерия: n/a\nНомер: -\nДата рождения: 01.02.1990\n"
	fs := PassportParser(VariantUzbek)(reply)

	assert.NotContains(t, fs, "fio")
	assert.NotContains(t, fs, "passport_series")
	assert.NotContains(t, fs, "passport_number")
	assert.Equal(t, "01.02.1990", fs["birthdate"])
}

func TestPassportParserTajikVariant(t *testing.T) {
	reply := "Серия: AB\nНомер (таджикский): 404123456\nДата рождения: 01.02.1990\n"
	fs := PassportParser(VariantTajik)(reply)

	// Series suppressed, marked number routed to the document number slot.
	assert.NotContains(t, fs, "passport_series")
	assert.NotContains(t, fs, "passport_number")
	assert.Equal(t, "404123456", fs["doc_number"])
}

func TestPassportAuthorityWithoutDigits(t *testing.T) {
	fs := PassportParser(VariantUzbek)("Кем выдан: Министерство внутренних дел\n")
	assert.Equal(t, "МВД", fs["authority"])
}

func TestPatentFieldsDerivesExpiry(t *testing.T) {
	reply := "ФИО: Каримов Алишер\n" +
		"Номер патента: 77001234\n" +
		"Дата выдачи: 01.03.2024\n" +
		"Серия и номер бланка: ПР4744675\n" +
		"ИНН: 771234567890\n"

	fs := PatentFields(reply)

	assert.Equal(t, "КАРИМОВ АЛИШЕР", fs["fio"])
	assert.Equal(t, "01.03.2025", fs["patent_until"])
	assert.Equal(t, "ПР", fs["patent_blank_series"])
	assert.Equal(t, "4744675", fs["patent_blank_number"])
	assert.Equal(t, "771234567890", fs["inn"])
}

func TestDeriveExpiryUnparseable(t *testing.T) {
	assert.Equal(t, constants.PatentExpiryUndetermined, DeriveExpiry("abc"))
	assert.Equal(t, "01.03.2025", DeriveExpiry("01.03.2024"))
}

func TestSplitBlankCode(t *testing.T) {
	series, number := SplitBlankCode("ПР4744675")
	assert.Equal(t, "ПР", series)
	assert.Equal(t, "4744675", number)

	series, number = SplitBlankCode("пр 4744675")
	assert.Equal(t, "ПР", series)
	assert.Equal(t, "4744675", number)
}

func TestMigrationFields(t *testing.T) {
	reply := "Серия карты: 4022\nНомер карты: 1234567\nДата выдачи: 10.01.2024\nЦель визита: работа\n"
	fs := MigrationFields(reply)

	assert.Equal(t, "4022", fs["migration_card_series"])
	assert.Equal(t, "1234567", fs["migration_card_number"])
	assert.Equal(t, "10.01.2024", fs["migration_card_date"])
	assert.Equal(t, "работа", fs["migration_card_purpose"])
}

func TestDMSFieldsReroutesEmail(t *testing.T) {
	reply := "Номер полиса: 123-456\nСтраховая организация: info@insurer.ru\nДата выдачи: 01.02.2024\n"
	fs := DMSFields(reply)

	assert.Equal(t, "info@insurer.ru", fs["insurance_expiry"])
	assert.Equal(t, FallbackInsurer, fs["insurance_company"])
}

func TestDMSFieldsReroutesPhone(t *testing.T) {
	reply := "Номер полиса: 123-456\nСтраховая организация: +7 495 123-45-67\n"
	fs := DMSFields(reply)

	assert.Equal(t, "+7 495 123-45-67", fs["contact_phone"])
	assert.Equal(t, FallbackInsurer, fs["insurance_company"])
}

func TestDMSFieldsKeepsRealInsurer(t *testing.T) {
	reply := "Номер полиса: 123-456\nСтраховая организация: СК РЕСО-Гарантия\nСрок действия: mail@reso.ru\n"
	fs := DMSFields(reply)

	assert.Equal(t, "СК РЕСО-Гарантия", fs["insurance_company"])
	assert.Equal(t, "mail@reso.ru", fs["insurance_expiry"])
}

func TestContractFields(t *testing.T) {
	reply := "Номер договора: ТД-15\nДата договора: 12.05.2024\nДолжность: повар\n"
	fs := ContractFields(reply)

	assert.Equal(t, "ТД-15", fs["contract_number"])
	assert.Equal(t, "12.05.2024", fs["contract_date"])
	assert.Equal(t, "повар", fs["position"])
}

func TestLinesWithoutColonIgnored(t *testing.T) {
	fs := MigrationFields("шум без метки\nНомер карты: 1\n")
	assert.Len(t, fs, 1)
}

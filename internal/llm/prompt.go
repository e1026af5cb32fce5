package llm

import (
	"github.com/easymigrate/docintake/constants"
)

// Per-type extraction prompts. Each asks for a strict "Метка: значение"
// block whose labels match what the corresponding parser recognizes, with
// "Не найдено" for anything absent. The recognized text is appended to
// the prompt verbatim.
const (
	PromptPassport = `Ниже приведён распознанный текст паспорта иностранного гражданина.
Выдели из него поля и верни СТРОГО в формате "Метка: значение", по одному полю на строку.
Метки: ФИО, ФИО (латиницей), Дата рождения, Место рождения, Пол, Серия, Номер, Дата выдачи, Срок действия, Кем выдан, Страна, МРЗ.
Даты указывай в формате ДД.ММ.ГГГГ. Если поле не найдено, пиши "Не найдено". Никакого другого текста.

Текст документа:
`

	PromptMigration = `Ниже приведён распознанный текст миграционной карты.
Выдели из него поля и верни СТРОГО в формате "Метка: значение", по одному полю на строку.
Метки: Серия карты, Номер карты, Дата выдачи, Цель визита.
Даты указывай в формате ДД.ММ.ГГГГ. Если поле не найдено, пиши "Не найдено". Никакого другого текста.

Текст документа:
`

	PromptPatent = `Ниже приведён распознанный текст патента на работу (обе стороны).
Выдели из него поля и верни СТРОГО в формате "Метка: значение", по одному полю на строку.
Метки: Серия патента, Номер патента, Дата выдачи, Кем выдан, ФИО, Серия и номер бланка, ИНН.
Даты указывай в формате ДД.ММ.ГГГГ. Серия и номер бланка — слитно, например ПР4744675.
Если поле не найдено, пиши "Не найдено". Никакого другого текста.

Текст документа:
`

	PromptDMS = `Ниже приведён распознанный текст полиса добровольного медицинского страхования (ДМС).
Выдели из него поля и верни СТРОГО в формате "Метка: значение", по одному полю на строку.
Метки: Номер полиса, Страховая организация, Дата выдачи, Срок действия.
Даты указывай в формате ДД.ММ.ГГГГ. Если поле не найдено, пиши "Не найдено". Никакого другого текста.

Текст документа:
`

	PromptContract = `Ниже приведён распознанный текст трудового договора.
Выдели из него поля и верни СТРОГО в формате "Метка: значение", по одному полю на строку.
Метки: Номер договора, Дата договора, Должность.
Даты указывай в формате ДД.ММ.ГГГГ. Если поле не найдено, пиши "Не найдено". Никакого другого текста.

Текст документа:
`
)

var prompts = map[constants.DocumentType]string{
	constants.DocPassport:  PromptPassport,
	constants.DocMigration: PromptMigration,
	constants.DocPatent:    PromptPatent,
	constants.DocDMS:       PromptDMS,
	constants.DocContract:  PromptContract,
}

// PromptFor returns the extraction prompt for a document type.
func PromptFor(dt constants.DocumentType) string {
	return prompts[dt]
}

package intake

import (
	"fmt"
	"strings"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

// Human-readable prompts for manual entry, keyed by document type and
// field. Anything unknown falls back to a generic description.
var fieldDescriptions = map[constants.DocumentType]map[string]string{
	constants.DocPassport: {
		"fio":             "ФИО сотрудника (русскими буквами, ЗАГЛАВНЫМИ)",
		"birthdate":       "дату рождения (в формате ДД.ММ.ГГГГ)",
		"birth_place":     "место рождения",
		"passport_series": "серию паспорта",
		"passport_number": "номер паспорта",
		"doc_number":      "номер документа",
		"issue_date":      "дату выдачи паспорта",
		"expiry_date":     "срок действия паспорта",
		"authority":       "кем выдан паспорт",
		"nationality":     "страну паспорта",
	},
	constants.DocMigration: {
		"migration_card_series":  "серию миграционной карты",
		"migration_card_number":  "номер миграционной карты",
		"migration_card_date":    "дату выдачи миграционной карты",
		"migration_card_purpose": "цель визита",
	},
	constants.DocPatent: {
		"patent_series": "серию патента",
		"patent_number": "номер патента",
		"patent_date":   "дату выдачи патента (в формате ДД.ММ.ГГГГ)",
		"patent_issuer": "кем выдан патент",
		"fio":           "ФИО владельца (русскими буквами)",
		"patent_blank":  "серию и номер бланка патента (например, ПР4744675)",
		"inn":           "ИНН сотрудника",
	},
	constants.DocDMS: {
		"dms_number":        "номер полиса ДМС (полностью)",
		"insurance_date":    "дату выдачи страховки",
		"insurance_expiry":  "email для пункта 10",
		"insurance_company": "название страховой организации",
	},
	constants.DocContract: {
		"contract_number": "номер трудового договора",
		"contract_date":   "дату заключения трудового договора (в формате ДД.ММ.ГГГГ)",
		"position":        "должность сотрудника",
		"work_address":    "рабочий адрес",
		"contact_phone":   "контактный телефон",
		"contact_email":   "контактную электронную почту",
	},
}

// FieldDescription returns the manual-entry prompt text for a pair.
func FieldDescription(dt constants.DocumentType, field string) string {
	if m, ok := fieldDescriptions[dt]; ok {
		if d, ok := m[field]; ok {
			return d
		}
	}
	return fmt.Sprintf("значение для %q", field)
}

// ManualState is the coordinator's position in the prompt/accept loop.
type ManualState string

const (
	ManualRequesting ManualState = "REQUESTING"
	ManualAwaiting   ManualState = "AWAITING_INPUT"
	ManualDone       ManualState = "DONE"
)

// ManualCoordinator drains a session's missing-field queue one field at a
// time: it announces the next prompt, accepts exactly one trimmed value,
// and pops the queue. Input is deliberately not validated beyond
// trimming — the schema filter drops anything the destination table
// doesn't know.
type ManualCoordinator struct {
	session *entity.Session
	queue   *MissingQueue
	state   ManualState
}

func NewManualCoordinator(s *entity.Session) *ManualCoordinator {
	c := &ManualCoordinator{
		session: s,
		queue:   RestoreQueue(s.Missing),
		state:   ManualRequesting,
	}
	if c.queue.Len() == 0 {
		c.state = ManualDone
	}
	return c
}

func (c *ManualCoordinator) State() ManualState {
	return c.state
}

// NextPrompt returns the prompt for the head of the queue and moves the
// coordinator to AWAITING_INPUT. ok is false when the queue is drained.
func (c *ManualCoordinator) NextPrompt() (string, bool) {
	head, ok := c.queue.Peek()
	if !ok {
		c.state = ManualDone
		return "", false
	}
	c.state = ManualAwaiting
	return FieldDescription(head.DocType, head.Field), true
}

// Record stores the user's value for the current field, pops the queue,
// and reports whether the queue is drained.
func (c *ManualCoordinator) Record(input string) (done bool) {
	head, ok := c.queue.Pop()
	if !ok {
		c.state = ManualDone
		return true
	}
	c.session.Manual[head] = strings.TrimSpace(input)
	c.session.Missing = c.queue.Refs()
	if c.queue.Len() == 0 {
		c.state = ManualDone
		return true
	}
	c.state = ManualRequesting
	return false
}

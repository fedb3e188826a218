package intake

import (
	"strings"

	"contrack-backend/internal/domain/apperr"
)

func containsFieldMsg(err error, field, substr string) bool {
	for _, e := range apperr.FieldsOf(err) {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

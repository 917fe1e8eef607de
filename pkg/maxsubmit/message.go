package maxsubmit

import (
	"strconv"
	"strings"
)

const (
	placeholderMaxCount  = "{max_count}"
	placeholderFormCount = "{form_count}"
)

// RenderMessage substitutes every {max_count} and {form_count} placeholder in
// template with the decimal maximum and counted values.
func RenderMessage(template string, maxCount, formCount int) string {
	return strings.NewReplacer(
		placeholderMaxCount, strconv.Itoa(maxCount),
		placeholderFormCount, strconv.Itoa(formCount),
	).Replace(template)
}

package sfx

import (
	"strings"
)

// ExportConstants is used to export all currently loaded SFX,
// in a format that can be used to generate go constants.
// The keys are the constant names, the values the ids.
func ExportConstants() map[string]string {
	lock.Lock()
	defer lock.Unlock()
	export := make(map[string]string)
	for id := range loadedSfx {
		var formatted strings.Builder
		capsNext := true
		for _, c := range string(id) {
			if c == '-' || c == '_' || c == '.' || c == ' ' {
				capsNext = true
				continue
			}
			if capsNext {
				formatted.WriteString(strings.ToUpper(string(c)))
				capsNext = false
			} else {
				formatted.WriteRune(c)
			}
		}
		export[formatted.String()] = string(id)
	}
	return export
}

package backup

import (
	"fmt"
	"time"
)

// recordBackup logs a successful copy and appends it to the journal file
// when one is configured. A journal failure is logged only.
func (e *Engine) recordBackup(src, dst string) {
	line := fmt.Sprintf("%s: File '%s' was backed up to '%s'.", e.now().Format(time.RFC3339), src, dst)
	e.log.Info("%s", line)

	if e.journal == "" {
		return
	}
	if err := e.fs.AppendFile(e.journal, []byte(line+"\n")); err != nil {
		e.log.Error("failed to log backup action to file: %v", err)
	}
}

// Package events provides a minimal structured-event mechanism used to
// narrate the compile and run pipelines without coupling callers to a
// specific logging backend.
package events

import (
	"encoding/json"
	"fmt"
)

// Listener is a callback that receives pipeline events as they occur.
// A nil Listener is valid and means "no one is listening".
type Listener func(fmt.Stringer)

func jsonString(v interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%T", v): v,
	})
	return string(b)
}

// Emit calls l with e if l is non-nil.
func Emit(l Listener, e fmt.Stringer) {
	if l != nil {
		l(e)
	}
}

// ArchiveWritten is emitted once the signed archive has been fully
// flushed to its output stream.
type ArchiveWritten struct {
	Roles    int `json:"roles,omitempty"`
	Packages int `json:"packages,omitempty"`
	Bytes    int `json:"bytes,omitempty"`
}

func (e ArchiveWritten) String() string { return jsonString(e) }

// ExecutableStarted is emitted immediately before a resolved executable's
// child process is spawned.
type ExecutableStarted struct {
	Package string `json:"package,omitempty"`
	Main    string `json:"main,omitempty"`
}

func (e ExecutableStarted) String() string { return jsonString(e) }

// ExecutableFinished is emitted after a child process exits, whether it
// succeeded or failed.
type ExecutableFinished struct {
	Package  string `json:"package,omitempty"`
	ExitCode int    `json:"exit_code"`
	Failed   bool   `json:"failed,omitempty"`
}

func (e ExecutableFinished) String() string { return jsonString(e) }

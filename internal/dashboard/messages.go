package dashboard

import (
	"time"

	"github.com/rileyhilliard/hazmon/internal/link"
)

// linkEventMsg carries one event from the connection manager.
type linkEventMsg struct {
	event link.Event
}

// linkClosedMsg means the manager has stopped and its channel is closed.
type linkClosedMsg struct{}

// sampleTickMsg asks for the next synthetic chart sample.
type sampleTickMsg time.Time

// logLoadedMsg carries the result of a log fetch. seq ties it to the
// request so a stale result can't overwrite a newer one.
type logLoadedMsg struct {
	seq  int
	body string
	err  error
}

package serve

import (
	"context"
	"sync"

	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/page"
)

// MaxFlashMessages limits the number of pending messages.
const MaxFlashMessages = 20

var _ controller.Notifier = new(Flash)

// Flash collects notifications of tables as
// one-shot messages shown on the next page render.
type Flash struct {
	mtx      sync.Mutex
	messages []page.Message
}

// NewFlash returns an empty Flash.
func NewFlash() *Flash {
	return &Flash{}
}

// Notify implements controller.Notifier.
// The oldest message is dropped when MaxFlashMessages is reached.
func (f *Flash) Notify(_ context.Context, n controller.Notification) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if len(f.messages) >= MaxFlashMessages {
		f.messages = f.messages[1:]
	}
	f.messages = append(f.messages, page.Message{Level: n.Level.String(), Text: n.Message})
}

// Take returns and removes all pending messages.
func (f *Flash) Take() []page.Message {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	messages := f.messages
	f.messages = nil
	return messages
}

package http

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

const maxQueuedToasts = 20

// ToastQueue collects toasts raised while serving requests until the console drains them.
// A console process serves a single staff session, so there is one queue per
// process. Each toast goes to whichever response drains next, exactly once; two
// browser tabs on the same console split the toasts between them.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []service.Toast
	logger logger.Logger
}

func NewToastQueue(log logger.Logger) *ToastQueue {
	return &ToastQueue{logger: log.With(zap.String("component", "toasts"))}
}

func (q *ToastQueue) Success(msg string) { q.push(service.ToastSuccess, msg) }

func (q *ToastQueue) Error(msg string) { q.push(service.ToastError, msg) }

func (q *ToastQueue) push(level service.ToastLevel, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, service.Toast{Level: level, Message: msg})
	if len(q.toasts) > maxQueuedToasts {
		q.toasts = q.toasts[len(q.toasts)-maxQueuedToasts:]
	}
	q.logger.Debug("Toast queued", zap.String("level", string(level)), zap.String("message", msg))
}

// Drain returns the pending toasts, oldest first, and empties the queue.
func (q *ToastQueue) Drain() []service.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	if out == nil {
		return []service.Toast{}
	}
	return out
}

// LogNotifier only logs toasts, for processes with nobody to show them to.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.With(zap.String("component", "toasts"))}
}

func (n *LogNotifier) Success(msg string) { n.logger.Info(msg) }

func (n *LogNotifier) Error(msg string) { n.logger.Warn(msg) }

// LoginNavigator remembers that the backend rejected the session so the next
// console response can send the operator to the login screen.
type LoginNavigator struct {
	pending atomic.Bool
	logger  logger.Logger
}

func NewLoginNavigator(log logger.Logger) *LoginNavigator {
	return &LoginNavigator{logger: log}
}

func (n *LoginNavigator) RedirectToLogin() {
	n.pending.Store(true)
	n.logger.Info("Redirecting operator to login", zap.String("route", LoginRoute))
}

// TakeRedirect reports and clears a pending redirect.
func (n *LoginNavigator) TakeRedirect() bool {
	return n.pending.Swap(false)
}

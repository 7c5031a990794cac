package thread

import "context"

// Func is the body of a managed thread. It must return promptly once
// ctx is cancelled; that is the only stop mechanism.
type Func func(ctx context.Context, arg any)

// Thread is a capability token for one managed execution unit. It is
// owned by the creator and becomes inert once the body returns.
type Thread struct {
	name   string
	id     uint64
	mgr    *Manager
	cancel context.CancelFunc
	done   chan struct{}
}

// Name returns the name the thread was created with.
func (t *Thread) Name() string {
	return t.name
}

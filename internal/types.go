package internal

import "context"

type Configurer interface {
	Configure(envs map[string]string) error
}

type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

type Clearer interface {
	Clear(ctx context.Context) error
}

// Refresher re-reads remote state into a local snapshot; it's the callback
// nested editors use to notify their owner after a mutation
type Refresher interface {
	Refresh(ctx context.Context) error
}

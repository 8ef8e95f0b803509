package db

import "context"

// DB is a store connection opened at startup and closed on shutdown.
type DB interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

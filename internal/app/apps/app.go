// Package apps implements the runnable client and server applications.
package apps

import "context"

// App is a runnable application.
type App interface {
	Run(ctx context.Context, args []string) error
}

var (
	_ App = (*ClientApp)(nil)
	_ App = (*ServerApp)(nil)
)

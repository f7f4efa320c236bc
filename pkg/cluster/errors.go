package cluster

import (
	"errors"
	"fmt"
)

// ErrInsufficientNodes is returned by SyncTest when fewer than two nodes are
// discovered; synchronization needs at least one counterpart.
var ErrInsufficientNodes = errors.New("at least 2 running nodes are needed to synchronize")

// PortResolutionError reports a container whose published-port table does not
// map the service port to exactly one host port. This is a fatal precondition
// violation and is never retried.
type PortResolutionError struct {
	Container   string
	ServicePort int
	Bindings    int
}

func (e *PortResolutionError) Error() string {
	return fmt.Sprintf("container %s: expected exactly 1 host binding for %d/tcp, found %d",
		e.Container, e.ServicePort, e.Bindings)
}

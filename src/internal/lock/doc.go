// Package lock serializes work on a named resource across goroutines and
// service instances. A Manager polls a Store at a short fixed interval until
// the lock is obtained or the wait timeout elapses. Every lock carries a lease
// so a crashed holder cannot block the resource forever; work that outlives
// its lease may overlap with the next holder.
package lock

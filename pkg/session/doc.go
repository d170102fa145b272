/*
Package session keeps form snapshots across requests.

A Manager serializes access to each session with a reference-counted local mutex and,
when configured, a DistributedLocker so several replicas can share one StateStore.
Update runs the load, mutate, save cycle of a form under that lock.
*/
package session

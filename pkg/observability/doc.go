/*
Package observability turns form lifecycle events into Prometheus metrics and structured logs.

Both Metrics.Hooks and LogHooks return domain.LifecycleHooks, so they compose with
LifecycleHooks.Merge and plug into verdict.WithLifecycleHooks.
*/
package observability

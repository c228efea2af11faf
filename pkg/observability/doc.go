/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured log lines.

Both are plain domain.LifecycleHooks values, so they compose with
LifecycleHooks.Merge and can be handed to intake.WithLifecycleHooks.
*/
package observability

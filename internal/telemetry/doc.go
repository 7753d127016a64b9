// Package telemetry wires Prometheus metrics and OpenTelemetry tracing.
//
// Metrics live in a private registry exposed through Handler, which the
// server mounts at /actuator/metrics. SetupProvider installs a tracer
// provider for the whole process; an OTLP exporter is attached only when
// a collector endpoint is configured.
package telemetry

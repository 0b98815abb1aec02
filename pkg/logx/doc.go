// Package logx configures the framework's structured logging.
//
// It wraps zerolog with a small Logger type plus name-scoped pass-through
// functions (Critical/Error/Warning/Info/Debug) so channels and middlewares
// can log under a dotted scope name without holding a logger value. Sinks:
//   - Console output (short timestamp + short caller)
//   - File output, JSON-structured
//   - Optional master-channel notice forwarding (min-level + rate limiting)
package logx

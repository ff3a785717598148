// Package utils exposes reusable helpers consumed by multiple maiar commands.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, and
// the CommandContextAccessor that carries per-run values such as the resolved
// repository location between Cobra commands.
package utils

package config

// Input defaults.
const (
	DefaultInputPath   = "input.txt"
	DefaultInputStrict = true
)

// Display defaults.
const (
	DefaultDisplayOrder  = "id"
	DefaultDisplayView   = "both"
	DefaultDisplayFormat = "table"
	DefaultDisplayColor  = true
)

// Index defaults.
const (
	DefaultIndexCapacity = 0
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultServiceName  = "assemblyline"
	DefaultOTLPInsecure = false
	DefaultMetricsAddr  = ""
)

package common

// UnknownStr is the display name for out-of-range enum values.
const UnknownStr = "unknown"

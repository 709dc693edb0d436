package domain

import "time"

// weatherCallTimeout caps one tool invocation against the weather service.
// A forecast is two sequential upstream requests, so this sits above the
// per-request HTTP timeout.
const weatherCallTimeout = 25 * time.Second

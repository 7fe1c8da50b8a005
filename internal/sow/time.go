package sow

import "time"

// timeNow is replaced in tests to freeze timestamps.
var timeNow = time.Now

const timeLayout = time.RFC3339

package service

import "time"

// timeNow is a package-level variable so tests can freeze the clock.
var timeNow = time.Now

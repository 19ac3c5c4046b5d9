package usage

import "errors"

// ErrLimitReached indicates the principal has no analysis credits left this week.
var ErrLimitReached = errors.New("analysis limit reached")

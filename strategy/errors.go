package strategy

import "errors"

// ErrUnknownStrategy indicates that a strategy name does not match a built-in strategy.
var ErrUnknownStrategy = errors.New("unknown balance strategy")

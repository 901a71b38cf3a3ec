package prober

import "errors"

var errNoTarget = errors.New("prober: no target configured")

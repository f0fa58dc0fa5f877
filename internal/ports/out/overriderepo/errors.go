package overriderepo

import "errors"

var ErrNotFound = errors.New("visit override not found")

package opsitemrepo

import "errors"

var ErrNotFound = errors.New("operational item not found")

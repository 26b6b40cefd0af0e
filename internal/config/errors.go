package config

import "github.com/pkg/errors"

var ErrInvalidConfig = errors.New("invalid config")

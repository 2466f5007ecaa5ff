package utils

import (
	"errors"
	"io/fs"
	"strconv"
)

// ParseID parses a positive numeric identifier from a path segment.
func ParseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// viper reports a missing explicit config file as a plain fs error
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

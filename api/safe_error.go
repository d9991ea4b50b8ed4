package api

import (
	"familyledger/config"
)

// SafeErrorMessage keeps internal error details away from clients in release mode.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrCorruptValue is returned when a stored value cannot be read as the
// requested type.
var ErrCorruptValue = errors.New("corrupt stored value")

// Store is the persistent key-value store behind the review engine.
//
// Getters report ok=false for a missing key. Remove deletes all given keys as
// one unit: either every key is gone afterwards or none is.
type Store interface {
	GetNumber(ctx context.Context, key string) (value float64, ok bool, err error)
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetNumber(ctx context.Context, key string, value float64) error
	SetString(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// formatNumber is the text encoding shared by all backends.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %s holds %q", ErrCorruptValue, key, raw)
	}
	return v, nil
}

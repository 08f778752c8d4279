// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log formats accepted by SetupLogging.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// SetupLogging configures the standard logrus logger. Logs go to out so a
// host reading stdout only sees protocol lines.
func SetupLogging(level, format string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", LogFormatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case LogFormatText:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q (expected %s or %s)", format, LogFormatJSON, LogFormatText)
	}

	logrus.SetLevel(lvl)
	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}

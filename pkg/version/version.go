// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package version

import (
	"runtime/debug"
	"strings"
)

// Provider reports the running app's version. ok is false when the version is
// unknown.
type Provider interface {
	CurrentVersion() (version string, ok bool)
}

// Func adapts a function to a Provider.
type Func func() (string, bool)

// CurrentVersion calls f.
func (f Func) CurrentVersion() (string, bool) {
	return f()
}

// Static always reports the same version. An empty string means unknown.
type Static string

// CurrentVersion returns the static version.
func (s Static) CurrentVersion() (string, bool) {
	v := strings.TrimSpace(string(s))
	return v, v != ""
}

// None never knows the version.
var None Provider = Func(func() (string, bool) { return "", false })

// FromBuildInfo reads the main module version embedded by the Go toolchain.
// Development builds report "(devel)", which is treated as unknown.
func FromBuildInfo() Provider {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return None
	}
	return fromModuleVersion(info.Main.Version)
}

func fromModuleVersion(v string) Provider {
	if v == "" || v == "(devel)" {
		return None
	}
	return Static(v)
}

// Resolve picks the configured version when set, falling back to build info.
func Resolve(configured string) Provider {
	if strings.TrimSpace(configured) != "" {
		return Static(configured)
	}
	return FromBuildInfo()
}

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

const ProgramName = "etfperf"

var (
	// commitHash and buildDate are set with -ldflags by the mage build
	commitHash string
	buildDate  string
)

// Version represents a SemVer 2.0.0 compatible build version
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string // blank for release builds
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return s
	}

	s = fmt.Sprintf("%s-%s", s, v.Suffix)
	if commitHash != "" {
		s = fmt.Sprintf("%s+%s", s, strings.ToLower(commitHash))
	}
	return s
}

// Dependencies returns the sorted module dependencies of the running binary
func Dependencies() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}
	sort.Strings(deps)
	return deps
}

// BuildVersionString is what you see when running "etfperf version"
func BuildVersionString(withDeps bool) string {
	date := buildDate
	if date == "" {
		date = "unknown"
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s v%s %s/%s\n\n", ProgramName, CurrentVersion, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(sb, "Build Date: %s\n", date)
	fmt.Fprintf(sb, "Commit: %s\n", commitHash)
	fmt.Fprintf(sb, "Built with: %s\n", runtime.Version())

	if withDeps {
		sb.WriteString("\nDependencies:\n\n")
		sb.WriteString(strings.Join(Dependencies(), "\n"))
		sb.WriteString("\n")
	}

	return sb.String()
}

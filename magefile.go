//go:build mage

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "etfperf"
	versionPkg = "github.com/penny-vault/etfperf/common"
)

// allow user to override go executable by running as GOEXE=xxx mage ...
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build the etfperf binary with the commit hash and build date stamped in
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(nil, goexe, "build", "-o", binaryName, "-ldflags", ldflags(), ".")
}

// Serve builds the binary and starts the API against ETFPERF_DATA_DIR
func Serve() error {
	mg.Deps(Build)

	if os.Getenv("ETFPERF_DATA_DIR") == "" {
		return errors.New("ETFPERF_DATA_DIR must name the directory of price files")
	}
	return sh.RunV("./"+binaryName, "serve", "--log-pretty")
}

func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(binaryName)
	os.RemoveAll("coverage.out")
}

// Run formatting, vet and the test suites
func Check() {
	mg.SerialDeps(Fmt, Vet, Test)
}

func Test() error {
	fmt.Println("Go Test")
	return sh.RunV(goexe, "test", "-race", "./...")
}

// Cover writes coverage.out and opens the HTML report
func Cover() error {
	if err := sh.RunV(goexe, "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html=coverage.out")
}

// Fmt fails when any file is not gofmt'ed; gofmt itself always exits 0
func Fmt() error {
	fmt.Println("Go Format")

	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}

	var unformatted []string
	for _, f := range strings.Split(out, "\n") {
		if f != "" && !strings.HasPrefix(f, "_") {
			unformatted = append(unformatted, f)
		}
	}
	if len(unformatted) > 0 {
		fmt.Println("The following files are not gofmt'ed:")
		fmt.Println(strings.Join(unformatted, "\n"))
		return errors.New("improperly formatted go files")
	}
	return nil
}

func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %v", err)
	}
	return nil
}

func ldflags() string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format("2006-01-02T15:04:05Z0700")
	return fmt.Sprintf("-X %s.commitHash=%s -X %s.buildDate=%s", versionPkg, hash, versionPkg, date)
}

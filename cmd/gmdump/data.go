// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/gm-tools/gmdata"
	"github.com/pkg/errors"
)

// openData memory-maps path and parses it, honoring the two strict
// flags every subcommand that reads a container shares.
func openData(path string, strict bool) (*gmdata.Data, error) {
	opts := &gmdata.Options{
		VerifyAlignment: strict,
		VerifyConstants: strict,
	}
	d, err := gmdata.Open(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return d, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

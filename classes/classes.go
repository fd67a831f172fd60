// Package classes reads a detector's class-name file: plain text, one
// class name per line, indexed from 0.
package classes

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/periopdigitize/chartextract/modelio"
)

// Load reads path and returns its class names in line order. Lines are
// trimmed of their trailing line terminator only; blank lines are kept
// as empty class names rather than skipped, per spec.md §6.
func Load(ctx context.Context, path string) ([]string, error) {
	r, closeFn, err := modelio.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "classes: loading", path)
	}
	defer closeFn()

	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		names = append(names, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "classes: reading", path)
	}
	return names, nil
}

// NameAt returns the class name at index i, or an error if i is out of
// range — a malformed model output pointing past the end of the class
// list is a collaborator-boundary failure, not a core invariant.
func NameAt(names []string, i int) (string, error) {
	if i < 0 || i >= len(names) {
		return "", fmt.Errorf("classes: index %d out of range for %d class names", i, len(names))
	}
	return names[i], nil
}

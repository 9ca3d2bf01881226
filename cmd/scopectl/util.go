package main

import (
	"fmt"
	"strings"

	"github.com/scopeengine/core"
)

// splitBoxName splits an unversioned "box/name" argument, the form put
// takes (a working copy has no version yet).
func splitBoxName(s string) (box, name string, err error) {
	box, name, ok := strings.Cut(s, "/")
	if !ok || box == "" || name == "" {
		return "", "", fmt.Errorf("scopectl: expected box/name, got %q", s)
	}
	return box, name, nil
}

func parseIds(args []string) ([]scope.BitId, error) {
	ids := make([]scope.BitId, 0, len(args))
	for _, a := range args {
		id, err := scope.ParseBitId(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

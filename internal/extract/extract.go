// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-04

// Package extract finds Asana task references in pull request text.
package extract

import (
	"fmt"
	"regexp"
)

// urlPattern matches https://app.asana.com/<workspace>/<project>/<task>.
const urlPattern = `\s*https://app\.asana\.com/(\d+)/(?P<project>\d+)/(?P<task>\d*)`

// Pattern compiles the reference expression for a literal trigger phrase.
func Pattern(triggerPhrase string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(triggerPhrase) + urlPattern)
}

// TaskReferences returns the task ids referenced in text, left to right.
// Duplicates are kept. Occurrences with an empty task id are reported as
// errors and skipped.
func TaskReferences(text, triggerPhrase string) ([]string, []error) {
	if text == "" {
		return nil, nil
	}

	re := Pattern(triggerPhrase)
	taskIdx := re.SubexpIndex("task")

	var refs []string
	var errs []error
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		if taskIdx < 0 || taskIdx >= len(match) || match[taskIdx] == "" {
			errs = append(errs, fmt.Errorf("invalid Asana task URL after the trigger phrase %q: %s", triggerPhrase, match[0]))
			continue
		}
		refs = append(refs, match[taskIdx])
	}
	return refs, errs
}

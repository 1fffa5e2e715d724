// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-04

package actions

import (
	"strings"

	"github.com/similigh/asana-link/internal/integrations/asana"
)

// findComment returns the first story whose text contains commentID.
func findComment(stories []asana.Story, commentID string) *asana.Story {
	if commentID == "" {
		return nil
	}
	for i := range stories {
		if strings.Contains(stories[i].Text, commentID) {
			return &stories[i]
		}
	}
	return nil
}

// commentBody appends the correlation id on its own trailing line.
func commentBody(text, commentID string) string {
	if commentID == "" {
		return text
	}
	return text + "\n" + commentID + "\n"
}

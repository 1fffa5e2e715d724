// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

package actions

import (
	"github.com/similigh/asana-link/internal/core/config"
	"github.com/similigh/asana-link/internal/core/dispatch"
)

// RegisterAll registers all built-in actions with the registry.
func RegisterAll(r *dispatch.Registry) {
	r.Register(config.ActionAssertLink, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		action, err := NewAssertLink(deps)
		if err != nil {
			return nil, err
		}
		return action, nil
	})

	r.Register(config.ActionAddComment, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		return NewAddComment(deps), nil
	})

	r.Register(config.ActionRemoveComment, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		return NewRemoveComment(deps), nil
	})

	r.Register(config.ActionCompleteTask, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		return NewCompleteTask(deps), nil
	})

	r.Register(config.ActionMoveSection, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		return NewMoveSection(deps), nil
	})

	r.Register(config.ActionUpdateFields, func(deps *dispatch.Dependencies) (dispatch.Action, error) {
		return NewUpdateFields(deps), nil
	})
}
